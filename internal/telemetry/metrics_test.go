package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, m *Metrics, vec string, labels ...string) float64 {
	t.Helper()
	var pb dto.Metric
	switch vec {
	case "requests":
		if err := m.requestsTotal.WithLabelValues(labels...).Write(&pb); err != nil {
			t.Fatalf("write metric: %v", err)
		}
	case "gate":
		if err := m.gateShortCircuits.WithLabelValues(labels...).Write(&pb); err != nil {
			t.Fatalf("write metric: %v", err)
		}
	case "escalations":
		if err := m.escalations.WithLabelValues(labels...).Write(&pb); err != nil {
			t.Fatalf("write metric: %v", err)
		}
	}
	return pb.GetCounter().GetValue()
}

func TestMetrics_RecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("TIER1", "general", 50*time.Millisecond)
	m.RecordRequest("TIER1", "general", 70*time.Millisecond)
	m.RecordRequest("CACHE", "academic", time.Millisecond)

	if got := counterValue(t, m, "requests", "TIER1", "general"); got != 2 {
		t.Errorf("tier1 requests = %v, want 2", got)
	}
	if got := counterValue(t, m, "requests", "CACHE", "academic"); got != 1 {
		t.Errorf("cache requests = %v, want 1", got)
	}
}

func TestMetrics_RecordEscalation(t *testing.T) {
	m := NewMetrics()

	m.RecordEscalation("tier1", "tier2")
	if got := counterValue(t, m, "escalations", "tier1", "tier2"); got != 1 {
		t.Errorf("escalations = %v, want 1", got)
	}
}

func TestMetrics_HandlerServesRegistry(t *testing.T) {
	m := NewMetrics()
	m.RecordGateShortCircuit("casual_greeting")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "bridge_gate_short_circuits_total") {
		t.Error("metrics output missing gate counter")
	}
}
