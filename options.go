package pdfpress

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/docforge/pdfpress/internal/codec"
	"github.com/docforge/pdfpress/internal/journal"
	"github.com/docforge/pdfpress/internal/stats"
)

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	codec   codec.Codec
	stats   stats.Collector
	logger  *zap.Logger
	journal *journal.Writer
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithCodec sets the recompression codec to use. Required.
func WithCodec(c codec.Codec) Option {
	return optionFunc(func(o *options) {
		o.codec = c
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithJournal enables the run journal at the given path. Entries are
// appended after every successful compression.
func WithJournal(path string) (Option, error) {
	w, err := journal.NewWriter(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return optionFunc(func(o *options) {
		o.journal = w
	}), nil
}
