package snapshot

import (
	"context"
	"time"

	"tasignals/pkg/errors"
	"tasignals/pkg/logger"
)

// Diagnostics describes one analysis run
type Diagnostics struct {
	RunID       string
	Symbol      string
	Candles     int
	Computed    int
	Degraded    []string // computed with adaptive periods
	Unavailable []string // insufficient data or missing optional input
	Disabled    []string
	Failures    []*errors.IndicatorError
	Duration    time.Duration
}

// Failed reports whether any indicator hit a computation failure
func (d Diagnostics) Failed() bool {
	return len(d.Failures) > 0
}

// Collector receives diagnostics after every analysis
type Collector interface {
	Collect(ctx context.Context, diag Diagnostics)
}

// Collectors fans diagnostics out to several collectors in order
func Collectors(cs ...Collector) Collector {
	return multiCollector(cs)
}

type multiCollector []Collector

func (m multiCollector) Collect(ctx context.Context, diag Diagnostics) {
	for _, c := range m {
		if c != nil {
			c.Collect(ctx, diag)
		}
	}
}

// LogCollector writes one structured line per analysis
type LogCollector struct {
	log *logger.Logger
}

// NewLogCollector creates a collector logging to log, or to the global logger when nil
func NewLogCollector(log *logger.Logger) *LogCollector {
	if log == nil {
		log = logger.Get()
	}
	return &LogCollector{log: log.With("component", "snapshot_diagnostics")}
}

// Collect implements Collector
func (c *LogCollector) Collect(ctx context.Context, diag Diagnostics) {
	fields := []interface{}{
		"run_id", diag.RunID,
		"symbol", diag.Symbol,
		"candles", diag.Candles,
		"computed", diag.Computed,
		"degraded", len(diag.Degraded),
		"unavailable", len(diag.Unavailable),
		"failures", len(diag.Failures),
		"duration_ms", diag.Duration.Milliseconds(),
	}
	if diag.Failed() {
		c.log.Warnw("Analysis finished with failures", fields...)
		return
	}
	c.log.Infow("Analysis finished", fields...)
}

// TrackerCollector forwards computation failures to an error tracker
type TrackerCollector struct {
	tracker errors.Tracker
}

// NewTrackerCollector creates a collector reporting to tracker
func NewTrackerCollector(tracker errors.Tracker) *TrackerCollector {
	return &TrackerCollector{tracker: tracker}
}

// Collect implements Collector
func (c *TrackerCollector) Collect(ctx context.Context, diag Diagnostics) {
	for _, f := range diag.Failures {
		_ = c.tracker.CaptureError(ctx, f, map[string]string{
			"component": "snapshot",
			"indicator": f.Indicator,
			"symbol":    diag.Symbol,
			"run_id":    diag.RunID,
		})
	}
}
