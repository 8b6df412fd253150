package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	upstreamCalls     *prometheus.CounterVec
	upstreamLatency   *prometheus.HistogramVec
	articlesPersisted prometheus.Counter
	errorsTotal       *prometheus.CounterVec
	latency           *prometheus.HistogramVec
}

// New creates a recorder registered on reg. Pass prometheus.DefaultRegisterer
// to expose it on /metrics, or a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_upstream_calls_total",
				Help: "Total number of calls to external providers",
			},
			[]string{"provider", "result"},
		),
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signaldesk_upstream_duration_seconds",
				Help:    "Duration of external provider calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		articlesPersisted: f.NewCounter(
			prometheus.CounterOpts{
				Name: "signaldesk_articles_persisted_total",
				Help: "Total number of scored news articles persisted",
			},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signaldesk_operation_duration_seconds",
				Help:    "Duration of pipeline operations in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"operation"},
		),
	}
}

// RecordUpstreamCall records one provider call and its outcome.
func (r *Recorder) RecordUpstreamCall(provider string, err error, seconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.upstreamCalls.WithLabelValues(provider, result).Inc()
	r.upstreamLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordArticlePersisted counts a stored article. Symbols come from request
// input, so they are not used as a label.
func (r *Recorder) RecordArticlePersisted() {
	r.articlesPersisted.Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
