// Package gcssource implements a Google Cloud Storage document source.
package gcssource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/docforge/pdfpress/internal/source"
)

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source lists and fetches documents from a GCS bucket.
type Source struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// New creates a GCS source. The bucket must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Source, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Source{
		client: client,
		bucket: client.Bucket(bucketName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Option configures a Source.
type Option func(*Source)

// WithPrefix restricts listing and fetching to keys under prefix.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// List iterates every object under the prefix.
func (s *Source) List(ctx context.Context, fn func(source.Object) error) error {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: s.prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("listing objects: %w", err)
		}

		if err := fn(source.Object{
			Key:     strings.TrimPrefix(attrs.Name, s.prefix),
			Size:    attrs.Size,
			ModTime: attrs.Updated,
		}); err != nil {
			return err
		}
	}
}

// Fetch writes the object's content to w.
func (s *Source) Fetch(ctx context.Context, key string, w io.Writer) error {
	reader, err := s.bucket.Object(s.prefix + key).NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return source.ErrNotFound
		}
		return fmt.Errorf("creating reader: %w", err)
	}
	defer reader.Close()

	if _, err := io.Copy(w, reader); err != nil {
		return fmt.Errorf("reading object: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *Source) Close() error {
	return s.client.Close()
}
