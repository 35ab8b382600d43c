// Package collect discovers documents in a remote source and mirrors them
// into a local directory, preserving key structure. It is the intake side of
// the toolchain: collected documents are what squeeze runs operate on.
package collect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/docforge/pdfpress/internal/source"
	"github.com/docforge/pdfpress/internal/stats"
)

// DefaultExtensions is the filter applied when none is configured.
var DefaultExtensions = []string{".pdf"}

// seenCacheSize bounds the memory spent remembering keys across repeated
// sweeps of the same source.
const seenCacheSize = 8192

// Collector mirrors matching remote documents into a destination directory.
type Collector struct {
	src        source.Source
	dest       string
	extensions []string
	since      time.Time
	maxFiles   int
	seen       *lru.Cache[string, struct{}]
	stats      stats.Collector
	logger     *zap.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithExtensions sets the filename extensions to collect (case-insensitive,
// leading dot included). Default is .pdf only.
func WithExtensions(exts []string) Option {
	return func(c *Collector) {
		if len(exts) > 0 {
			c.extensions = exts
		}
	}
}

// WithSince skips objects last modified before t.
func WithSince(t time.Time) Option {
	return func(c *Collector) { c.since = t }
}

// WithMaxFiles caps the number of files copied per sweep. Zero means no cap.
func WithMaxFiles(n int) Option {
	return func(c *Collector) { c.maxFiles = n }
}

// WithStats sets the stats collector.
func WithStats(s stats.Collector) Option {
	return func(c *Collector) { c.stats = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Collector) { c.logger = l }
}

// New creates a Collector mirroring src into dest.
func New(src source.Source, dest string, opts ...Option) (*Collector, error) {
	seen, err := lru.New[string, struct{}](seenCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating seen cache: %w", err)
	}

	c := &Collector{
		src:        src,
		dest:       dest,
		extensions: DefaultExtensions,
		seen:       seen,
		stats:      stats.NewNoop(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Summary reports one sweep.
type Summary struct {
	Scanned int
	Copied  int
	Skipped int
	Failed  int
	Bytes   int64
	Started time.Time
	Took    time.Duration
}

// Run performs one sweep of the source. Individual copy failures are logged
// and counted, never fatal: one unreadable document must not sink the rest
// of the collection. Listing errors and cancellation do abort.
func (c *Collector) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{Started: time.Now()}

	if err := os.MkdirAll(c.dest, 0755); err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}

	err := c.src.List(ctx, func(obj source.Object) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sum.Scanned++

		if !c.wants(obj) {
			sum.Skipped++
			return nil
		}
		if c.maxFiles > 0 && sum.Copied >= c.maxFiles {
			sum.Skipped++
			return nil
		}
		if _, ok := c.seen.Get(obj.Key); ok {
			sum.Skipped++
			return nil
		}

		if err := c.copy(ctx, obj); err != nil {
			sum.Failed++
			c.stats.IncCounter(stats.MetricCollectErrors, 1)
			c.logger.Error("copy failed",
				zap.String("key", obj.Key),
				zap.Error(err),
			)
			return nil
		}

		c.seen.Add(obj.Key, struct{}{})
		sum.Copied++
		sum.Bytes += obj.Size
		c.stats.IncCounter(stats.MetricFilesCollected, 1)
		c.logger.Info("copied",
			zap.String("key", obj.Key),
			zap.Int64("size", obj.Size),
		)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing source: %w", err)
	}

	sum.Took = time.Since(sum.Started)
	return sum, nil
}

// wants applies the extension and mod-time filters.
func (c *Collector) wants(obj source.Object) bool {
	name := strings.ToLower(obj.Key)
	matched := false
	for _, ext := range c.extensions {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if !c.since.IsZero() && obj.ModTime.Before(c.since) {
		return false
	}
	return true
}

// copy fetches one object into the destination tree, writing through a temp
// file so a failed fetch never leaves a truncated document behind.
func (c *Collector) copy(ctx context.Context, obj source.Object) error {
	destPath := filepath.Join(c.dest, filepath.FromSlash(obj.Key))
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".collect-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := c.src.Fetch(ctx, obj.Key, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("fetching: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("placing file: %w", err)
	}
	return nil
}
