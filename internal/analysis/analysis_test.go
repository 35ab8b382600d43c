package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/docforge/pdfpress/internal/journal"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDescribe(t *testing.T) {
	d := Describe([]float64{4, 6, 5})

	if d.N != 3 {
		t.Errorf("N = %d, want 3", d.N)
	}
	if !almostEqual(d.Mean, 5) {
		t.Errorf("Mean = %v, want 5", d.Mean)
	}
	if !almostEqual(d.Median, 5) {
		t.Errorf("Median = %v, want 5", d.Median)
	}
	if !almostEqual(d.StdDev, 1) {
		t.Errorf("StdDev = %v, want 1", d.StdDev)
	}
	if d.Min != 4 || d.Max != 6 {
		t.Errorf("Min/Max = %v/%v, want 4/6", d.Min, d.Max)
	}
}

func TestDescribeEmpty(t *testing.T) {
	d := Describe(nil)
	if d.N != 0 || d.Mean != 0 || d.Min != 0 || d.Max != 0 {
		t.Errorf("Describe(nil) = %+v, want zero stats", d)
	}
}

func TestDescribeDoesNotMutateInput(t *testing.T) {
	sample := []float64{3, 1, 2}
	Describe(sample)
	if sample[0] != 3 || sample[1] != 1 || sample[2] != 2 {
		t.Errorf("input reordered: %v", sample)
	}
}

func TestSummarize(t *testing.T) {
	entries := []journal.Entry{
		{Iterations: 6, InputBytes: 1000000, FinalBytes: 500000, Duration: 2 * time.Second},
		{Iterations: 4, InputBytes: 800000, FinalBytes: 600000, Duration: time.Second},
		{Iterations: 2, InputBytes: 0, FinalBytes: 0, Duration: 3 * time.Second},
	}

	s := Summarize(entries)

	if s.Trials.N != 3 {
		t.Errorf("Trials.N = %d, want 3", s.Trials.N)
	}
	if !almostEqual(s.Trials.Mean, 4) {
		t.Errorf("Trials.Mean = %v, want 4", s.Trials.Mean)
	}
	if !almostEqual(s.Trials.StdDev, 2) {
		t.Errorf("Trials.StdDev = %v, want 2", s.Trials.StdDev)
	}

	// The entry without an input size is excluded from the ratio sample.
	if s.Ratio.N != 2 {
		t.Errorf("Ratio.N = %d, want 2", s.Ratio.N)
	}
	if !almostEqual(s.Ratio.Mean, 0.625) {
		t.Errorf("Ratio.Mean = %v, want 0.625", s.Ratio.Mean)
	}

	if !almostEqual(s.Seconds.Mean, 2) {
		t.Errorf("Seconds.Mean = %v, want 2", s.Seconds.Mean)
	}
	if !almostEqual(s.Seconds.Median, 2) {
		t.Errorf("Seconds.Median = %v, want 2", s.Seconds.Median)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Trials.N != 0 || s.Ratio.N != 0 || s.Seconds.N != 0 {
		t.Errorf("Summarize(nil) = %+v, want empty stats", s)
	}
}
