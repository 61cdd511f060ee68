package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NumberingMetrics tracks the document number generator's retry behaviour.
type NumberingMetrics struct {
	retries   *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
}

// NewNumberingMetrics registers the numbering metrics on the provided registerer.
func NewNumberingMetrics(reg prometheus.Registerer) *NumberingMetrics {
	if reg == nil {
		return &NumberingMetrics{}
	}
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_number_retries",
		Help: "Collisions detected while proposing a document number.",
	}, []string{"prefix"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_number_fallbacks",
		Help: "Timestamp fallbacks after exhausting number proposal retries.",
	}, []string{"prefix"})
	reg.MustRegister(retries, fallbacks)
	return &NumberingMetrics{
		retries:   retries,
		fallbacks: fallbacks,
	}
}

// IncRetry increments the collision counter for the given document prefix.
func (n *NumberingMetrics) IncRetry(prefix string) {
	if n == nil || n.retries == nil {
		return
	}
	n.retries.WithLabelValues(normalizeLabel(prefix)).Inc()
}

// IncFallback increments the fallback counter for the given document prefix.
func (n *NumberingMetrics) IncFallback(prefix string) {
	if n == nil || n.fallbacks == nil {
		return
	}
	n.fallbacks.WithLabelValues(normalizeLabel(prefix)).Inc()
}
