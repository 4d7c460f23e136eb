package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestIngestMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIngestMetrics(reg)
	m.IncOutcome(IngestOutcomeCreated, "SUCCESS")
	m.IncOutcome(IngestOutcomeCreated, "SUCCESS")
	m.IncOutcome(IngestOutcomeInFlight, "")
	m.ObserveParse(3 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "email_ingest_total")
	if mf == nil {
		t.Fatal("email_ingest_total not registered")
	}
	var created, inFlight float64
	for _, metric := range mf.GetMetric() {
		switch {
		case matchesLabel(metric.GetLabel(), "outcome", IngestOutcomeCreated):
			created = metric.GetCounter().GetValue()
		case matchesLabel(metric.GetLabel(), "parse_status", "none"):
			inFlight = metric.GetCounter().GetValue()
		}
	}
	if created != 2 || inFlight != 1 {
		t.Fatalf("unexpected counts created=%f inFlight=%f", created, inFlight)
	}
	if hist := findMetricFamily(mfs, "email_parse_duration_seconds"); hist == nil || hist.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatal("expected one parse observation")
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *IngestMetrics
	m.IncOutcome(IngestOutcomeFailed, "FAILED")
	m.ObserveParse(time.Second)
	NewIngestMetrics(nil).IncOutcome(IngestOutcomeDeduped, "SUCCESS")
}
