package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigma.log")
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	book, err := New(path, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	book.Error("boom")

	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-3", "entry-4", "boom"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
	if !strings.Contains(lines[2], "ERROR") {
		t.Fatalf("error level missing: %q", lines[2])
	}
	if !strings.HasPrefix(lines[0], "2026-03-01T09:30:00Z") {
		t.Fatalf("timestamp not from injected clock: %q", lines[0])
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("dropped")
	book.Warn("dropped")
	book.Error("dropped")
	if got := book.Tail(10); got != nil {
		t.Fatalf("Tail on nil = %v, want nil", got)
	}
	if book.Path() != "" {
		t.Fatalf("Path on nil = %q", book.Path())
	}
}

func TestTailMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("log file should not exist before first append")
	}
	if got := book.Tail(5); got != nil {
		t.Fatalf("Tail = %v, want nil", got)
	}
}
