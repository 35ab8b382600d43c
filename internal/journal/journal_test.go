package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func TestJournal_AppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl.zst")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	entries := []Entry{
		{Time: time.Unix(1700000000, 0).UTC(), Input: "a.pdf", Output: "a-small.pdf", TargetBytes: 500000, FinalBytes: 480000, Quality: 54, Iterations: 6, ReachedTarget: true},
		{Time: time.Unix(1700000100, 0).UTC(), Input: "b.pdf", Output: "b-small.pdf", TargetBytes: 200000, FinalBytes: 260000, Quality: 20, Iterations: 8, Fallback: true},
	}
	for _, e := range entries {
		if err := w.Append(e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Read() returned %d entries, want 2", len(got))
	}
	if got[0].Input != "a.pdf" || !got[0].ReachedTarget {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[1].Quality != 20 || !got[1].Fallback {
		t.Errorf("second entry = %+v", got[1])
	}
}

func TestJournal_AppendAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl.zst")

	for i := 0; i < 3; i++ {
		w, err := NewWriter(path)
		if err != nil {
			t.Fatalf("NewWriter() error = %v", err)
		}
		if err := w.Append(Entry{Input: "doc.pdf", Iterations: i}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Read() returned %d entries, want 3", len(got))
	}
}

func TestRead_Missing(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.jsonl.zst"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Errorf("Read() of missing journal = %v, want nil", got)
	}
}
