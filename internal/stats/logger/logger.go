// Package logger emits metrics as structured debug log events. It is the
// collector the CLI wires up, where a scrape endpoint would be overkill and
// the log stream is already being watched.
package logger

import (
	"go.uber.org/zap"

	"github.com/docforge/pdfpress/internal/stats"
)

// Collector writes every metric event to a zap logger at debug level.
type Collector struct {
	log *zap.Logger
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a collector writing to log. A nil log discards all events.
func New(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{log: log}
}

// IncCounter logs a counter increment.
func (c *Collector) IncCounter(name string, delta int64) {
	c.log.Debug("counter",
		zap.String("metric", name),
		zap.Int64("delta", delta),
	)
}

// SetGauge logs a gauge value.
func (c *Collector) SetGauge(name string, value int64) {
	c.log.Debug("gauge",
		zap.String("metric", name),
		zap.Int64("value", value),
	)
}

// ObserveHistogram logs a histogram observation.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.log.Debug("histogram",
		zap.String("metric", name),
		zap.Float64("value", value),
	)
}
