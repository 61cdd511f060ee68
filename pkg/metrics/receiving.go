package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReceivingMetrics records GRN completion outcomes and the duration of the
// completion transaction.
type ReceivingMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewReceivingMetrics registers the receiving metrics on the provided registerer.
func NewReceivingMetrics(reg prometheus.Registerer) *ReceivingMetrics {
	if reg == nil {
		return &ReceivingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grn_completion_duration_seconds",
		Help:    "Duration of GRN completion transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"store"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grn_completion_success",
		Help: "Successful GRN completions.",
	}, []string{"store"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grn_completion_failure",
		Help: "Failed GRN completion attempts.",
	}, []string{"store"})
	reg.MustRegister(duration, success, failure)
	return &ReceivingMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records a completion transaction duration for the store.
func (r *ReceivingMetrics) ObserveDuration(store string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(store)).Observe(duration.Seconds())
}

// IncSuccess increments the completion success counter for the store.
func (r *ReceivingMetrics) IncSuccess(store string) {
	if r == nil || r.success == nil {
		return
	}
	r.success.WithLabelValues(normalizeLabel(store)).Inc()
}

// IncFailure increments the completion failure counter for the store.
func (r *ReceivingMetrics) IncFailure(store string) {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.WithLabelValues(normalizeLabel(store)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
