package poll

import (
	"testing"
)

func TestTallyRecord(t *testing.T) {
	tally := NewTally([]string{"3", "4", "5"})

	if err := tally.Record("Alice", "4"); err != nil {
		t.Fatalf("should be able to record a vote: %v", err)
	}

	counts, total := tally.Snapshot()
	if total != 1 {
		t.Fatalf("expected total 1, got %d", total)
	}
	if counts["3"] != 0 || counts["4"] != 1 || counts["5"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestTallyUnknownOption(t *testing.T) {
	tally := NewTally([]string{"yes", "no"})

	if err := tally.Record("Alice", "maybe"); err != ErrUnknownOption {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if _, total := tally.Snapshot(); total != 0 {
		t.Fatalf("rejected vote must not change the tally, total %d", total)
	}
}

func TestTallySingleVote(t *testing.T) {
	tally := NewTally([]string{"3", "4", "5"})

	if err := tally.Record("Alice", "4"); err != nil {
		t.Fatalf("first vote should succeed: %v", err)
	}
	if err := tally.Record("Alice", "3"); err != ErrAlreadyVoted {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	counts, total := tally.Snapshot()
	if total != 1 || counts["3"] != 0 || counts["4"] != 1 {
		t.Fatalf("second vote must not change the tally: %v total %d", counts, total)
	}
	if !tally.HasVoted("Alice") {
		t.Fatal("Alice should have a recorded vote")
	}
	if tally.HasVoted("Bob") {
		t.Fatal("Bob should not have a recorded vote")
	}
}

func TestTallySnapshotIsCopy(t *testing.T) {
	tally := NewTally([]string{"a", "b"})
	tally.Record("Alice", "a")

	counts, _ := tally.Snapshot()
	counts["a"] = 99

	fresh, _ := tally.Snapshot()
	if fresh["a"] != 1 {
		t.Fatalf("snapshot must be a copy, got %d", fresh["a"])
	}
}

func TestTallyTotalMatchesDistinctVoters(t *testing.T) {
	tally := NewTally([]string{"a", "b"})
	tally.Record("Alice", "a")
	tally.Record("Bob", "a")
	tally.Record("Carol", "b")
	_ = tally.Record("Alice", "b") // rejected

	counts, total := tally.Snapshot()
	if total != 3 {
		t.Fatalf("expected 3 distinct voters, got %d", total)
	}
	sum := 0
	for _, n := range counts {
		sum += n
	}
	if sum != total {
		t.Fatalf("counts sum %d should equal total %d", sum, total)
	}
}

func TestPercentages(t *testing.T) {
	pct := Percentages(map[string]int{"a": 1, "b": 2, "c": 0}, 3)
	if pct["a"] != 33 || pct["b"] != 67 || pct["c"] != 0 {
		t.Fatalf("unexpected percentages: %v", pct)
	}

	zero := Percentages(map[string]int{"a": 0, "b": 0}, 0)
	if zero["a"] != 0 || zero["b"] != 0 {
		t.Fatalf("zero total must give 0%% everywhere: %v", zero)
	}
}
