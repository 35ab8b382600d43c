package fssource

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/docforge/pdfpress/internal/source"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestSource_List(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "report.pdf", "one")
	writeFile(t, root, "archive/old.pdf", "two")
	writeFile(t, root, "notes.txt", "three")

	s, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	var keys []string
	err = s.List(context.Background(), func(o source.Object) error {
		keys = append(keys, o.Key)
		return nil
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	sort.Strings(keys)
	want := []string{"archive/old.pdf", "notes.txt", "report.pdf"}
	if len(keys) != len(want) {
		t.Fatalf("List() returned %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestSource_Fetch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "archive/old.pdf", "payload")

	s, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	var buf bytes.Buffer
	if err := s.Fetch(context.Background(), "archive/old.pdf", &buf); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if buf.String() != "payload" {
		t.Errorf("Fetch() = %q, want %q", buf.String(), "payload")
	}
}

func TestSource_FetchNotFound(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	var buf bytes.Buffer
	err = s.Fetch(context.Background(), "missing.pdf", &buf)
	if !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Fetch() error = %v, want ErrNotFound", err)
	}
}

func TestNew_InvalidRoot(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("New() with missing root should return error")
	}
}
