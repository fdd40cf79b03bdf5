package poll

import (
	"strings"
	"testing"
)

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry(nil, Options{})
	s := reg.Create()

	if len(s.Code) != CodeLength {
		t.Fatalf("expected %d-character code, got %q", CodeLength, s.Code)
	}
	for _, c := range s.Code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Fatalf("code %q contains %q outside the alphabet", s.Code, c)
		}
	}
	if s.TeacherToken == "" {
		t.Fatal("teacher token should not be empty")
	}

	got, err := reg.Get(s.Code)
	if err != nil || got != s {
		t.Fatalf("should retrieve the created session: %v", err)
	}
}

func TestRegistryCodesUnique(t *testing.T) {
	reg := NewRegistry(nil, Options{})
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		s := reg.Create()
		if seen[s.Code] {
			t.Fatalf("duplicate live code %q", s.Code)
		}
		seen[s.Code] = true
	}
	if reg.Count() != 200 {
		t.Fatalf("expected 200 live sessions, got %d", reg.Count())
	}
}

func TestRegistryGetCaseInsensitive(t *testing.T) {
	reg := NewRegistry(nil, Options{})
	s := reg.Create()

	if _, err := reg.Get(strings.ToLower(s.Code)); err != nil {
		t.Fatalf("lowercase lookup should work: %v", err)
	}
	if _, err := reg.Get("  " + strings.ToLower(s.Code) + " "); err != nil {
		t.Fatalf("whitespace should be trimmed: %v", err)
	}
	if _, err := reg.Get("NOSUCH"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegistryEnd(t *testing.T) {
	reg := NewRegistry(nil, Options{})
	s := reg.Create()

	if err := reg.End(s.Code); err != nil {
		t.Fatalf("end should succeed: %v", err)
	}
	if _, err := reg.Get(s.Code); err != ErrSessionNotFound {
		t.Fatalf("ended session should be gone, got %v", err)
	}
	if err := reg.End(s.Code); err != ErrSessionNotFound {
		t.Fatalf("double end should report not found, got %v", err)
	}
	if reg.Count() != 0 {
		t.Fatalf("expected 0 live sessions, got %d", reg.Count())
	}
}
