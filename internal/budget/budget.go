// Package budget defines the validated size budget that drives a
// recompression search.
package budget

import (
	"errors"
	"fmt"
)

// Defaults applied when a caller leaves the corresponding field unset.
const (
	DefaultTolerance     = 0.05
	DefaultMinQuality    = 20
	DefaultMaxQuality    = 95
	DefaultMaxIterations = 8
)

// ErrInvalid indicates a malformed budget. It is detected eagerly, before
// any codec invocation.
var ErrInvalid = errors.New("budget: invalid size budget")

// Budget is the immutable parameter set for one compression run.
type Budget struct {
	// TargetBytes is the desired maximum output size.
	TargetBytes int64

	// Tolerance is the acceptable relative overshoot above TargetBytes.
	// A result within TargetBytes*(1+Tolerance) is still considered passing.
	Tolerance float64

	// MinQuality and MaxQuality bound the codec quality levels tried.
	MinQuality int
	MaxQuality int

	// MaxIterations caps the number of codec invocations. Each trial is a
	// full recompression pass over the document, so the search must stay
	// bounded.
	MaxIterations int
}

// New validates and constructs a Budget. Construction is a pure function of
// its inputs; it never touches the filesystem or the codec.
func New(targetBytes int64, tolerance float64, minQuality, maxQuality, maxIterations int) (Budget, error) {
	if targetBytes <= 0 {
		return Budget{}, fmt.Errorf("%w: target size must be positive, got %d", ErrInvalid, targetBytes)
	}
	if tolerance <= 0 || tolerance >= 1 {
		return Budget{}, fmt.Errorf("%w: tolerance must be between 0 and 1 (exclusive), got %g", ErrInvalid, tolerance)
	}
	if minQuality < 1 || maxQuality > 100 || minQuality >= maxQuality {
		return Budget{}, fmt.Errorf("%w: quality range [%d,%d] outside 1..100 or inverted", ErrInvalid, minQuality, maxQuality)
	}
	if maxIterations < 1 {
		return Budget{}, fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalid, maxIterations)
	}

	return Budget{
		TargetBytes:   targetBytes,
		Tolerance:     tolerance,
		MinQuality:    minQuality,
		MaxQuality:    maxQuality,
		MaxIterations: maxIterations,
	}, nil
}

// WithinCeiling reports whether size satisfies the tolerance ceiling
// TargetBytes*(1+Tolerance).
func (b Budget) WithinCeiling(size int64) bool {
	return float64(size) <= float64(b.TargetBytes)*(1+b.Tolerance)
}

// MeetsTarget reports whether size is at or below the exact target,
// stricter than WithinCeiling.
func (b Budget) MeetsTarget(size int64) bool {
	return size <= b.TargetBytes
}
