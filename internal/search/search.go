// Package search implements the bounded quality search that drives a
// document toward a caller-specified size budget, and the finalization that
// promotes the winning candidate.
//
// The search is a one-sided feasibility search, not a converge-to-target
// binary search: once a passing quality is found, it keeps looking for an
// even higher acceptable quality. It assumes the quality-to-size mapping is
// monotonic non-decreasing and never verifies it; for documents where size
// is dominated by fonts or structure rather than images, the search can
// prune a half-interval that contained a better answer.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docforge/pdfpress/internal/budget"
	"github.com/docforge/pdfpress/internal/codec"
	"github.com/docforge/pdfpress/internal/ledger"
	"github.com/docforge/pdfpress/internal/stats"
)

// ErrNoCandidate indicates the ledger held nothing at finalization. With a
// valid budget (at least one iteration) this is unreachable.
var ErrNoCandidate = errors.New("search: no candidate produced")

// Runner drives the quality search for one document.
type Runner struct {
	codec  codec.Codec
	stats  stats.Collector
	logger *zap.Logger
}

// NewRunner creates a Runner. A nil stats collector or logger is replaced
// with a no-op.
func NewRunner(c codec.Codec, collector stats.Collector, logger *zap.Logger) *Runner {
	if collector == nil {
		collector = stats.NewNoop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{codec: c, stats: collector, logger: logger}
}

// Report is the outcome of one search.
type Report struct {
	// Ledger holds the surviving candidates. The caller owns it and must
	// release it on every path.
	Ledger *ledger.Ledger

	// Trials is the number of codec invocations performed.
	Trials int
}

// state is the shrinking search interval. It is local to one Run call and
// mutated once per loop pass.
type state struct {
	low, high int
	trials    int
}

// Run performs the bounded binary search over quality levels. The returned
// report's ledger holds at most two live artifacts. On error the ledger has
// already been released; nothing leaks.
func (r *Runner) Run(ctx context.Context, input string, b budget.Budget) (*Report, error) {
	lg := ledger.New()
	st := state{low: b.MinQuality, high: b.MaxQuality}

	for st.low <= st.high && st.trials < b.MaxIterations {
		if err := ctx.Err(); err != nil {
			lg.Release()
			return nil, err
		}

		st.trials++
		quality := (st.low + st.high) / 2

		start := time.Now()
		art, err := r.codec.Recompress(ctx, input, quality)
		r.stats.IncCounter(stats.MetricTrials, 1)
		r.stats.ObserveHistogram(stats.MetricTrialSeconds, time.Since(start).Seconds())
		if err != nil {
			// Fatal to the whole operation. Release anything retained so
			// far; the failing trial left no artifact behind.
			r.stats.IncCounter(stats.MetricCodecFailures, 1)
			lg.Release()
			return nil, fmt.Errorf("trial at quality %d: %w", quality, err)
		}

		cand := ledger.Candidate{Quality: quality, Size: art.Size(), Artifact: art}

		if b.WithinCeiling(cand.Size) {
			retained, err := lg.OfferPassing(cand)
			if err != nil {
				lg.Release()
				return nil, err
			}
			r.logger.Debug("trial passed",
				zap.Int("quality", quality),
				zap.Int64("size", cand.Size),
				zap.Bool("retained", retained),
			)
			// Search for an even higher acceptable quality.
			st.low = quality + 1
		} else {
			retained, err := lg.OfferFailing(cand)
			if err != nil {
				lg.Release()
				return nil, err
			}
			r.logger.Debug("trial failed",
				zap.Int("quality", quality),
				zap.Int64("size", cand.Size),
				zap.Bool("retained", retained),
			)
			st.high = quality - 1
		}
	}

	return &Report{Ledger: lg, Trials: st.trials}, nil
}
