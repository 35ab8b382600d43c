// Package source defines the remote document source interface used by the
// collector. Implementations handle listing and fetching; path formats and
// transport details stay internal to each backend.
package source

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when a requested object does not exist.
var ErrNotFound = errors.New("source: object not found")

// Object describes one remote document.
type Object struct {
	// Key is the object's path relative to the source root, using forward
	// slashes.
	Key string

	Size    int64
	ModTime time.Time
}

// Source is a listable collection of remote documents.
type Source interface {
	// List calls fn for every object under the source root. Returning an
	// error from fn stops the walk and propagates the error.
	List(ctx context.Context, fn func(Object) error) error

	// Fetch writes the content of the object with the given key to w.
	Fetch(ctx context.Context, key string, w io.Writer) error

	// Close releases any resources held by the source.
	Close() error
}
