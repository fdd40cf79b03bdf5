package poll

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteExport(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.txt")
	r := Results{
		Question: "2+2=?",
		Options:  []string{"3", "4"},
		Votes:    map[string]int{"3": 1, "4": 3},
		Total:    4,
		EndedAt:  time.Now().UTC(),
	}

	if err := writeExport("ABC234", r, 1, file); err != nil {
		t.Fatalf("export should succeed: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"Session ABC234",
		`Question 1: "2+2=?"`,
		"- 3: 1 vote(s), 25%",
		"- 4: 3 vote(s), 75%",
		"Total responses: 4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("export missing %q:\n%s", want, out)
		}
	}

	// a second question appends without repeating the header
	r.Question = "3+3=?"
	if err := writeExport("ABC234", r, 2, file); err != nil {
		t.Fatalf("second export should succeed: %v", err)
	}
	data, _ = os.ReadFile(file)
	if strings.Count(string(data), "Session ABC234") != 1 {
		t.Fatal("header should be written once per session")
	}
	if !strings.Contains(string(data), `Question 2: "3+3=?"`) {
		t.Fatal("second question missing from export")
	}
}

func TestSessionExportsOnClose(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out", "results.txt")
	reg := NewRegistry(nil, Options{ExportFile: file})
	s := reg.Create()
	s.Join("Alice")
	s.AskQuestion(s.TeacherToken, "2+2=?", []string{"3", "4"}, time.Minute)
	s.SubmitVote("Alice", "4")

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("export file should exist after close: %v", err)
	}
	if !strings.Contains(string(data), "2+2=?") {
		t.Fatalf("export should contain the question:\n%s", data)
	}
}
