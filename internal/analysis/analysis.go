// Package analysis computes descriptive statistics over journaled
// compression runs.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/docforge/pdfpress/internal/journal"
)

// Descriptive contains basic descriptive statistics for a sample.
type Descriptive struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64 // sample standard deviation; NaN when N < 2
	Min    float64
	Max    float64
}

// Describe computes descriptive statistics for a sample.
func Describe(sample []float64) *Descriptive {
	if len(sample) == 0 {
		return &Descriptive{}
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	return &Descriptive{
		N:      len(sample),
		Mean:   stat.Mean(sample, nil),
		Median: sorted[len(sorted)/2],
		StdDev: stat.StdDev(sample, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// RunStats aggregates per-run samples drawn from a journal.
type RunStats struct {
	// Trials is the distribution of codec invocations per run.
	Trials *Descriptive
	// Ratio is the distribution of final size over input size. Runs whose
	// journal entry lacks an input size are excluded.
	Ratio *Descriptive
	// Seconds is the distribution of wall time per run.
	Seconds *Descriptive
}

// Summarize computes run statistics over journal entries.
func Summarize(entries []journal.Entry) *RunStats {
	trials := make([]float64, 0, len(entries))
	ratios := make([]float64, 0, len(entries))
	seconds := make([]float64, 0, len(entries))

	for _, e := range entries {
		trials = append(trials, float64(e.Iterations))
		seconds = append(seconds, e.Duration.Seconds())
		if e.InputBytes > 0 {
			ratios = append(ratios, float64(e.FinalBytes)/float64(e.InputBytes))
		}
	}

	return &RunStats{
		Trials:  Describe(trials),
		Ratio:   Describe(ratios),
		Seconds: Describe(seconds),
	}
}
