package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Indicator statuses
const (
	StatusOK     = "ok"
	StatusAbsent = "absent"
	StatusFailed = "failed"
)

// Aggregation statuses
const (
	AggregationOK           = "ok"
	AggregationInsufficient = "insufficient"
	AggregationNoData       = "no_data"
	AggregationInvalid      = "invalid"
)

var (
	// Indicator metrics
	IndicatorComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasignals_indicator_computations_total",
			Help: "Total number of indicator computations",
		},
		[]string{"indicator", "status"}, // status: ok|absent|failed
	)

	// Aggregation metrics
	Aggregations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasignals_aggregations_total",
			Help: "Total number of snapshot aggregations",
		},
		[]string{"status"}, // status: ok|insufficient|no_data|invalid
	)

	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tasignals_aggregation_duration_seconds",
			Help:    "Snapshot aggregation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
	)

	// Batch metrics
	BatchTickers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasignals_batch_tickers_total",
			Help: "Total number of tickers processed in batches",
		},
		[]string{"status"}, // status: ok|error|skipped
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tasignals_batch_duration_seconds",
			Help:    "Batch analysis duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(IndicatorComputations)
	prometheus.MustRegister(Aggregations)
	prometheus.MustRegister(AggregationDuration)
	prometheus.MustRegister(BatchTickers)
	prometheus.MustRegister(BatchDuration)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordIndicator records one indicator computation
func RecordIndicator(indicator, status string) {
	IndicatorComputations.WithLabelValues(indicator, status).Inc()
}

// RecordAggregation records one snapshot aggregation
func RecordAggregation(status string, duration time.Duration) {
	Aggregations.WithLabelValues(status).Inc()
	AggregationDuration.Observe(duration.Seconds())
}

// RecordBatch records a finished batch
func RecordBatch(ok, failed, skipped int, duration time.Duration) {
	BatchTickers.WithLabelValues("ok").Add(float64(ok))
	BatchTickers.WithLabelValues("error").Add(float64(failed))
	BatchTickers.WithLabelValues("skipped").Add(float64(skipped))
	BatchDuration.Observe(duration.Seconds())
}
