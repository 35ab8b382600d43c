package collect

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docforge/pdfpress/internal/source"
	"github.com/docforge/pdfpress/internal/source/fssource"
)

func seedSource(t *testing.T, files map[string]string) source.Source {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	s, err := fssource.New(root)
	if err != nil {
		t.Fatalf("fssource.New() error = %v", err)
	}
	return s
}

func TestCollector_MirrorsMatchingFiles(t *testing.T) {
	src := seedSource(t, map[string]string{
		"reports/q1.pdf":  "q1",
		"reports/q2.pdf":  "q2",
		"reports/raw.csv": "nope",
	})
	defer src.Close()
	dest := t.TempDir()

	c, err := New(src, dest)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sum, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if sum.Copied != 2 {
		t.Errorf("Copied = %d, want 2", sum.Copied)
	}
	if sum.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", sum.Skipped)
	}
	if sum.Failed != 0 {
		t.Errorf("Failed = %d, want 0", sum.Failed)
	}

	got, err := os.ReadFile(filepath.Join(dest, "reports", "q1.pdf"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "q1" {
		t.Errorf("mirrored content = %q, want %q", got, "q1")
	}
}

func TestCollector_SeenCacheSkipsRepeatSweeps(t *testing.T) {
	src := seedSource(t, map[string]string{"doc.pdf": "data"})
	defer src.Close()

	c, err := New(src, t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.Copied != 1 {
		t.Fatalf("first sweep Copied = %d, want 1", first.Copied)
	}

	second, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.Copied != 0 {
		t.Errorf("second sweep Copied = %d, want 0", second.Copied)
	}
	if second.Skipped != 1 {
		t.Errorf("second sweep Skipped = %d, want 1", second.Skipped)
	}
}

func TestCollector_MaxFiles(t *testing.T) {
	src := seedSource(t, map[string]string{
		"a.pdf": "a", "b.pdf": "b", "c.pdf": "c",
	})
	defer src.Close()

	c, err := New(src, t.TempDir(), WithMaxFiles(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sum, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Copied != 2 {
		t.Errorf("Copied = %d, want 2", sum.Copied)
	}
}

func TestCollector_SinceFilter(t *testing.T) {
	src := seedSource(t, map[string]string{"old.pdf": "old"})
	defer src.Close()

	c, err := New(src, t.TempDir(), WithSince(time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sum, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Copied != 0 || sum.Skipped != 1 {
		t.Errorf("sweep = %+v, want everything skipped", sum)
	}
}

// failingSource wraps a source and fails every Fetch for a given key.
type failingSource struct {
	source.Source
	failKey string
}

func (f *failingSource) Fetch(ctx context.Context, key string, w io.Writer) error {
	if key == f.failKey {
		return errors.New("transport error")
	}
	return f.Source.Fetch(ctx, key, w)
}

func TestCollector_PerFileFailureIsNotFatal(t *testing.T) {
	inner := seedSource(t, map[string]string{
		"bad.pdf":  "x",
		"good.pdf": "y",
	})
	defer inner.Close()
	src := &failingSource{Source: inner, failKey: "bad.pdf"}
	dest := t.TempDir()

	c, err := New(src, dest)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sum, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Failed != 1 {
		t.Errorf("Failed = %d, want 1", sum.Failed)
	}
	if sum.Copied != 1 {
		t.Errorf("Copied = %d, want 1", sum.Copied)
	}

	// The failed fetch must not leave a truncated file behind.
	if _, err := os.Stat(filepath.Join(dest, "bad.pdf")); !os.IsNotExist(err) {
		t.Error("partial file left for failed fetch")
	}
}

func TestManifest_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	sum := &Summary{Scanned: 5, Copied: 3, Skipped: 1, Failed: 1, Bytes: 1024, Started: time.Now().UTC(), Took: 2 * time.Second}

	if err := WriteManifest(dir, NewManifest("gs://bucket/docs", sum)); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if m.Source != "gs://bucket/docs" || m.Copied != 3 || m.TookMilli != 2000 {
		t.Errorf("ReadManifest() = %+v", m)
	}
}
