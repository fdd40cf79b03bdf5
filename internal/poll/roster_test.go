package poll

import (
	"reflect"
	"testing"
)

func TestRosterJoinAndOrder(t *testing.T) {
	r := NewRoster(false)
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if err := r.Join(name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}

	got := r.Active()
	if !reflect.DeepEqual(got, []string{"Alice", "Bob", "Carol"}) {
		t.Fatalf("expected insertion order, got %v", got)
	}
	if r.ActiveCount() != 3 {
		t.Fatalf("expected 3 active, got %d", r.ActiveCount())
	}
}

func TestRosterDuplicateName(t *testing.T) {
	r := NewRoster(false)
	r.Join("Alice")

	if err := r.Join("Alice"); err != ErrDuplicateName {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	// case-sensitive exact match: a different casing is a different name
	if err := r.Join("alice"); err != nil {
		t.Fatalf("different casing should be allowed: %v", err)
	}
}

func TestRosterRemoveIdempotent(t *testing.T) {
	r := NewRoster(false)
	r.Join("Alice")
	r.Join("Bob")

	changed, err := r.Remove("Alice")
	if err != nil || !changed {
		t.Fatalf("first remove should change status: changed=%v err=%v", changed, err)
	}
	active := r.Active()

	changed, err = r.Remove("Alice")
	if err != nil || changed {
		t.Fatalf("second remove should be a no-op success: changed=%v err=%v", changed, err)
	}
	if !reflect.DeepEqual(r.Active(), active) {
		t.Fatal("active set must be unchanged between the two removes")
	}

	if _, err := r.Remove("Nobody"); err != ErrParticipantNotFound {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestRosterRejoinAfterKick(t *testing.T) {
	r := NewRoster(false)
	r.Join("Alice")
	r.Remove("Alice")

	if err := r.Join("Alice"); err != ErrRemoved {
		t.Fatalf("kicked name should stay barred, got %v", err)
	}
	if !r.IsRemoved("Alice") {
		t.Fatal("Alice should still be marked removed")
	}

	relaxed := NewRoster(true)
	relaxed.Join("Alice")
	relaxed.Remove("Alice")
	if err := relaxed.Join("Alice"); err != nil {
		t.Fatalf("rejoin should be allowed with the relaxed policy: %v", err)
	}
	if !relaxed.IsActive("Alice") {
		t.Fatal("Alice should be active again after rejoin")
	}
}

func TestRosterLeave(t *testing.T) {
	r := NewRoster(false)
	r.Join("Alice")
	r.Join("Bob")

	if !r.Leave("Alice") {
		t.Fatal("leave should succeed for an active entry")
	}
	if !reflect.DeepEqual(r.Active(), []string{"Bob"}) {
		t.Fatalf("expected [Bob], got %v", r.Active())
	}
	// the name is free again after a voluntary leave
	if err := r.Join("Alice"); err != nil {
		t.Fatalf("name should be free after leave: %v", err)
	}

	// leaving does not erase a moderation bar
	r.Remove("Bob")
	if r.Leave("Bob") {
		t.Fatal("leave should not touch a removed entry")
	}
	if !r.IsRemoved("Bob") {
		t.Fatal("Bob should still be removed")
	}
}
