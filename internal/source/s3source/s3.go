// Package s3source implements an AWS S3 document source.
package s3source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/docforge/pdfpress/internal/source"
)

// Compile-time check that Source implements source.Source.
var _ source.Source = (*Source)(nil)

// Source lists and fetches documents from an S3 bucket.
type Source struct {
	client *s3.Client
	bucket string
	prefix string

	// Collected by options; the client is built once in New so that
	// combined options all take effect.
	cfgOpts []func(*config.LoadOptions) error
	s3Opts  []func(*s3.Options)
}

// New creates an S3 source. The bucket must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Source, error) {
	s := &Source{bucket: bucketName}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadDefaultConfig(ctx, s.cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	s.client = s3.NewFromConfig(cfg, s.s3Opts...)
	return s, nil
}

// Option configures a Source.
type Option func(*Source) error

// WithPrefix restricts listing and fetching to keys under prefix.
func WithPrefix(prefix string) Option {
	return func(s *Source) error {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
		return nil
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *Source) error {
		s.cfgOpts = append(s.cfgOpts, config.WithRegion(region))
		return nil
	}
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like MinIO).
func WithEndpoint(endpoint string) Option {
	return func(s *Source) error {
		s.s3Opts = append(s.s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
		return nil
	}
}

// List pages through every object under the prefix.
func (s *Source) List(ctx context.Context, fn func(source.Object) error) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("listing objects: %w", err)
		}
		for _, obj := range page.Contents {
			o := source.Object{
				Key: strings.TrimPrefix(aws.ToString(obj.Key), s.prefix),
			}
			if obj.Size != nil {
				o.Size = *obj.Size
			}
			if obj.LastModified != nil {
				o.ModTime = *obj.LastModified
			}
			if err := fn(o); err != nil {
				return err
			}
		}
	}
	return nil
}

// Fetch writes the object's content to w.
func (s *Source) Fetch(ctx context.Context, key string, w io.Writer) error {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return source.ErrNotFound
		}
		return fmt.Errorf("fetching object: %w", err)
	}
	defer result.Body.Close()

	if _, err := io.Copy(w, result.Body); err != nil {
		return fmt.Errorf("reading object: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *Source) Close() error {
	// The S3 client does not need explicit closing.
	return nil
}
