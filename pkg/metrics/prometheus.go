package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	assetsAnalyzed *prometheus.CounterVec
	anomaliesTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		assetsAnalyzed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "perpparity_assets_analyzed_total",
				Help: "Total number of assets fully analyzed",
			},
			[]string{"asset_type"},
		),
		anomaliesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "perpparity_volume_anomalies_total",
				Help: "Total number of flagged volume anomalies",
			},
			[]string{"source"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "perpparity_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "perpparity_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAssetAnalyzed records one completed per-asset analysis.
func (r *Recorder) RecordAssetAnalyzed(assetType string) {
	r.assetsAnalyzed.WithLabelValues(assetType).Inc()
}

// RecordAnomalies records flagged anomalous days for one side of a pair.
func (r *Recorder) RecordAnomalies(source string, n int) {
	if n <= 0 {
		return
	}
	r.anomaliesTotal.WithLabelValues(source).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
