// Package artifact manages temporary output files produced by recompression
// trials. An Artifact is exclusively owned by whichever component currently
// holds it; handing it to another component is a move, never a copy.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Artifact is a handle to a transformed, not-yet-final file on disk.
type Artifact struct {
	path     string
	size     int64
	released bool
}

// New wraps an existing file as an owned artifact.
func New(path string, size int64) *Artifact {
	return &Artifact{path: path, size: size}
}

// Path returns the on-disk location of the artifact.
func (a *Artifact) Path() string { return a.path }

// Size returns the artifact's size in bytes as observed at creation.
func (a *Artifact) Size() int64 { return a.size }

// Release deletes the backing file. It is idempotent: releasing an already
// released or promoted artifact is a no-op, and a file that is already gone
// is not an error.
func (a *Artifact) Release() error {
	if a.released {
		return nil
	}
	a.released = true

	if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("releasing artifact: %w", err)
	}
	return nil
}

// Promote moves the artifact to its final destination. It prefers an atomic
// rename and falls back to copy-then-delete when the destination is on a
// different filesystem. After a successful promote the handle is spent;
// further Release calls are no-ops.
func (a *Artifact) Promote(dst string) error {
	if a.released {
		return errors.New("artifact: promote after release")
	}

	if err := os.Rename(a.path, dst); err != nil {
		var linkErr *os.LinkError
		if !errors.As(err, &linkErr) {
			return fmt.Errorf("promoting artifact: %w", err)
		}
		// Cross-device move: copy then delete the source.
		if err := CopyFile(a.path, dst); err != nil {
			return fmt.Errorf("promoting artifact: %w", err)
		}
		if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing promoted source: %w", err)
		}
	}

	a.released = true
	return nil
}

// CopyFile copies src to dst, truncating dst if it exists and preserving the
// source file mode.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying data: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing destination: %w", err)
	}
	return nil
}
