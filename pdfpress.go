// Package pdfpress reduces a PDF's on-disk size to a caller-specified byte
// budget by searching over the codec's quality levels.
//
// Example usage:
//
//	client, err := pdfpress.New(
//	    pdfpress.WithCodec(gscodec.New()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	res, err := client.Compress(ctx, pdfpress.Request{
//	    Input:       "report.pdf",
//	    Output:      "report-small.pdf",
//	    TargetBytes: 500 * 1024,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %s (%d bytes)\n", res.OutputPath, res.FinalSize)
package pdfpress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/docforge/pdfpress/internal/artifact"
	"github.com/docforge/pdfpress/internal/budget"
	"github.com/docforge/pdfpress/internal/codec"
	"github.com/docforge/pdfpress/internal/journal"
	"github.com/docforge/pdfpress/internal/search"
	"github.com/docforge/pdfpress/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrInvalidBudget indicates a malformed target, tolerance, quality
	// range, or iteration cap. Detected before any codec invocation.
	ErrInvalidBudget = errors.New("pdfpress: invalid size budget")

	// ErrInputNotFound indicates the source document is missing.
	ErrInputNotFound = errors.New("pdfpress: input not found")

	// ErrCodecFailure indicates a recompression trial errored. The whole
	// operation aborts; no output is produced.
	ErrCodecFailure = errors.New("pdfpress: codec failure")

	// ErrNoCandidate indicates the search retained nothing to promote.
	// Unreachable with a valid budget.
	ErrNoCandidate = errors.New("pdfpress: no candidate produced")

	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("pdfpress: client closed")

	// ErrNoCodec indicates no codec was provided.
	ErrNoCodec = errors.New("pdfpress: no codec provided")
)

// Request describes one compression run. Zero values for Tolerance,
// MinQuality, MaxQuality, and MaxIterations select the defaults (0.05,
// 20, 95, and 8).
type Request struct {
	// Input is the path of the document to compress.
	Input string

	// Output is the path the result is promoted to.
	Output string

	// TargetBytes is the desired maximum output size. Required.
	TargetBytes int64

	Tolerance     float64
	MinQuality    int
	MaxQuality    int
	MaxIterations int
}

// Result describes the promoted output of a compression run.
type Result struct {
	OutputPath string
	FinalSize  int64

	// ReachedTarget is true only when FinalSize is at or below the exact
	// target. An output within the tolerance ceiling but above the target
	// reports false; callers should treat that as a warning, not an error.
	ReachedTarget bool

	// Quality is the codec quality level that produced the output. Zero
	// when the input was copied through untouched.
	Quality int

	// Iterations is the number of codec invocations performed.
	Iterations int

	// CopiedThrough is true when the input already met the target and was
	// copied without invoking the codec.
	CopiedThrough bool

	// Fallback is true when no trial satisfied the tolerance ceiling and
	// the smallest overshoot was promoted instead.
	Fallback bool
}

// Client runs size-targeted compressions. A Client is safe for concurrent
// use by multiple goroutines.
type Client struct {
	codec   codec.Codec
	stats   stats.Collector
	logger  *zap.Logger
	journal *journal.Writer
	closed  atomic.Bool
}

// New creates a new Client with the given options. A codec is required.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	c := &Client{
		codec:   cfg.codec,
		stats:   cfg.stats,
		logger:  cfg.logger,
		journal: cfg.journal,
	}

	if c.codec == nil {
		return nil, ErrNoCodec
	}

	c.logger.Debug("client initialized",
		zap.String("codec", c.codec.Name()),
	)

	return c, nil
}

// Compress squeezes the request's input document under its byte budget and
// promotes the winning candidate to the output path. Degraded outcomes
// (target missed but a usable output produced) are reported through
// Result.ReachedTarget, never as an error.
func (c *Client) Compress(ctx context.Context, req Request) (*Result, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	start := time.Now()
	b, err := newBudget(req)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(req.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, req.Input)
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}
	inputSize := info.Size()

	c.stats.IncCounter(stats.MetricRuns, 1)

	res, err := c.run(ctx, req, b, inputSize)
	if err != nil {
		return nil, err
	}

	c.record(req, res, inputSize, time.Since(start))
	return res, nil
}

// run performs the copy-through check, the search, and finalization.
func (c *Client) run(ctx context.Context, req Request, b budget.Budget, inputSize int64) (*Result, error) {
	// Already under the target: copy through, zero codec invocations.
	if inputSize <= b.TargetBytes {
		if err := copyThrough(req.Input, req.Output); err != nil {
			return nil, err
		}
		c.stats.IncCounter(stats.MetricCopyThrough, 1)
		c.stats.IncCounter(stats.MetricTargetReached, 1)
		c.logger.Info("input already under target, copied through",
			zap.String("input", req.Input),
			zap.Int64("size", inputSize),
		)
		return &Result{
			OutputPath:    req.Output,
			FinalSize:     inputSize,
			ReachedTarget: true,
			CopiedThrough: true,
		}, nil
	}

	runner := search.NewRunner(c.codec, c.stats, c.logger)
	report, err := runner.Run(ctx, req.Input, b)
	if err != nil {
		if errors.Is(err, codec.ErrFailed) {
			return nil, fmt.Errorf("%w: %w", ErrCodecFailure, err)
		}
		return nil, err
	}
	// Reclaims every non-promoted artifact on all exit paths.
	defer report.Ledger.Release()

	final, err := search.Finalize(report.Ledger, b, req.Output)
	if err != nil {
		if errors.Is(err, search.ErrNoCandidate) {
			return nil, fmt.Errorf("%w after %d trials", ErrNoCandidate, report.Trials)
		}
		return nil, err
	}

	if final.ReachedTarget {
		c.stats.IncCounter(stats.MetricTargetReached, 1)
	}
	if final.Fallback {
		c.stats.IncCounter(stats.MetricFallbacks, 1)
	}
	if saved := inputSize - final.Size; saved > 0 {
		c.stats.IncCounter(stats.MetricBytesSaved, saved)
	}

	c.logger.Info("compression finished",
		zap.String("output", req.Output),
		zap.Int64("size", final.Size),
		zap.Int("quality", final.Quality),
		zap.Int("trials", report.Trials),
		zap.Bool("reachedTarget", final.ReachedTarget),
		zap.Bool("fallback", final.Fallback),
	)

	return &Result{
		OutputPath:    req.Output,
		FinalSize:     final.Size,
		ReachedTarget: final.ReachedTarget,
		Quality:       final.Quality,
		Iterations:    report.Trials,
		Fallback:      final.Fallback,
	}, nil
}

// record appends the run to the journal when one is configured.
func (c *Client) record(req Request, res *Result, inputSize int64, took time.Duration) {
	if c.journal == nil {
		return
	}
	err := c.journal.Append(journal.Entry{
		Time:          time.Now().UTC(),
		Input:         req.Input,
		Output:        res.OutputPath,
		Codec:         c.codec.Name(),
		TargetBytes:   req.TargetBytes,
		InputBytes:    inputSize,
		FinalBytes:    res.FinalSize,
		Quality:       res.Quality,
		Iterations:    res.Iterations,
		ReachedTarget: res.ReachedTarget,
		CopiedThrough: res.CopiedThrough,
		Fallback:      res.Fallback,
		Duration:      took,
	})
	if err != nil {
		// Journaling is advisory; a failed append never fails the run.
		c.logger.Warn("journal append failed", zap.Error(err))
	}
}

// Close releases all resources associated with the client.
// After Close, the client should not be used.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if c.journal != nil {
		if err := c.journal.Close(); err != nil {
			return fmt.Errorf("closing journal: %w", err)
		}
	}
	return nil
}

// Codec returns the codec used by this client.
func (c *Client) Codec() codec.Codec {
	return c.codec
}

// copyThrough duplicates the input at the output path, leaving the input in
// place.
func copyThrough(src, dst string) error {
	if err := artifact.CopyFile(src, dst); err != nil {
		return fmt.Errorf("copying input through: %w", err)
	}
	return nil
}

// newBudget applies request defaults and validates.
func newBudget(req Request) (budget.Budget, error) {
	tolerance := req.Tolerance
	if tolerance == 0 {
		tolerance = budget.DefaultTolerance
	}
	minQ := req.MinQuality
	if minQ == 0 {
		minQ = budget.DefaultMinQuality
	}
	maxQ := req.MaxQuality
	if maxQ == 0 {
		maxQ = budget.DefaultMaxQuality
	}
	iters := req.MaxIterations
	if iters == 0 {
		iters = budget.DefaultMaxIterations
	}

	b, err := budget.New(req.TargetBytes, tolerance, minQ, maxQ, iters)
	if err != nil {
		return budget.Budget{}, fmt.Errorf("%w: %w", ErrInvalidBudget, err)
	}
	return b, nil
}
