// Package stats provides a unified interface for collecting metrics about
// compression runs.
package stats

// Metric names used throughout the library.
const (
	// Run metrics.
	MetricRuns          = "pdfpress_runs_total"
	MetricTargetReached = "pdfpress_target_reached_total"
	MetricFallbacks     = "pdfpress_fallback_total"
	MetricCopyThrough   = "pdfpress_copy_through_total"
	MetricBytesSaved    = "pdfpress_bytes_saved_total"

	// Trial metrics.
	MetricTrials        = "pdfpress_trials_total"
	MetricCodecFailures = "pdfpress_codec_failures_total"
	MetricTrialSeconds  = "pdfpress_trial_seconds"

	// Collector metrics.
	MetricFilesCollected = "pdfpress_files_collected_total"
	MetricCollectErrors  = "pdfpress_collect_errors_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
