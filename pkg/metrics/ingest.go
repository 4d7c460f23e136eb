package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingest outcome label values.
const (
	IngestOutcomeCreated  = "created"
	IngestOutcomeDeduped  = "deduped"
	IngestOutcomeFailed   = "failed"
	IngestOutcomeInFlight = "in_flight"
)

// IngestMetrics records inbound email processing outcomes.
type IngestMetrics struct {
	outcomes      *prometheus.CounterVec
	parseDuration prometheus.Histogram
}

// NewIngestMetrics registers the ingest metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_ingest_total",
		Help: "Inbound emails processed, by outcome and parse status.",
	}, []string{"outcome", "parse_status"})
	parseDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "email_parse_duration_seconds",
		Help:    "Time spent extracting order fields from an inbound email.",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	})
	reg.MustRegister(outcomes, parseDuration)
	return &IngestMetrics{outcomes: outcomes, parseDuration: parseDuration}
}

// IncOutcome counts one processed message.
func (m *IngestMetrics) IncOutcome(outcome, parseStatus string) {
	if m == nil || m.outcomes == nil {
		return
	}
	if parseStatus == "" {
		parseStatus = "none"
	}
	m.outcomes.WithLabelValues(normalizeLabel(outcome), parseStatus).Inc()
}

// ObserveParse records how long extraction took.
func (m *IngestMetrics) ObserveParse(d time.Duration) {
	if m == nil || m.parseDuration == nil {
		return
	}
	m.parseDuration.Observe(d.Seconds())
}
