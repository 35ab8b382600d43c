// Package codec defines the recompression transform invoked once per search
// trial. The transform is a black box: the search only observes the size of
// what comes back.
package codec

import (
	"context"
	"errors"

	"github.com/docforge/pdfpress/internal/artifact"
)

// ErrFailed indicates a recompression attempt errored. A codec failure is
// fatal to the whole search: it is treated as a structural problem with the
// input document, not a transient condition worth retrying at another
// quality level.
var ErrFailed = errors.New("codec: recompression failed")

// Codec produces a recompressed copy of a document at a given quality level.
type Codec interface {
	// Recompress rewrites the document at src with the given image quality
	// in [1,100] and returns the resulting artifact. Exactly one artifact
	// is produced on success; ownership passes to the caller. On error no
	// artifact is left behind.
	Recompress(ctx context.Context, src string, quality int) (*artifact.Artifact, error)

	// Name identifies the codec in logs and journals.
	Name() string
}
