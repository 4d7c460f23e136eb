package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics counts outbox dispatch results.
type OutboxMetrics struct {
	published    *prometheus.CounterVec
	failed       *prometheus.CounterVec
	deadLettered *prometheus.CounterVec
}

// NewOutboxMetrics registers the outbox publisher counters on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_published_total",
		Help: "Outbox events delivered to Pub/Sub.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failures_total",
		Help: "Retryable outbox publish failures.",
	}, []string{"event_type"})
	deadLettered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_dead_lettered_total",
		Help: "Outbox events moved to the DLQ.",
	}, []string{"event_type", "reason"})
	reg.MustRegister(published, failed, deadLettered)
	return &OutboxMetrics{
		published:    published,
		failed:       failed,
		deadLettered: deadLettered,
	}
}

func (m *OutboxMetrics) IncPublished(eventType string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

func (m *OutboxMetrics) IncFailed(eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

func (m *OutboxMetrics) IncDeadLettered(eventType, reason string) {
	if m == nil || m.deadLettered == nil {
		return
	}
	m.deadLettered.WithLabelValues(normalizeLabel(eventType), normalizeLabel(reason)).Inc()
}
