// Package telemetry exposes Prometheus metrics for the query pipeline.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all pipeline metric instruments on a dedicated
// registry, so tests can construct isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	gateShortCircuits *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	escalations       *prometheus.CounterVec
	providerFailures  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_requests_total",
		Help: "Pipeline runs by answer source and vibe.",
	}, []string{"source", "vibe"})

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bridge_request_duration_seconds",
		Help:    "End-to-end pipeline latency by answer source.",
		Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"source"})

	m.gateShortCircuits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_gate_short_circuits_total",
		Help: "Queries answered by the gate, by intent.",
	}, []string{"intent"})

	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_cache_lookups_total",
		Help: "Cache lookups by outcome (exact, semantic, miss).",
	}, []string{"outcome"})

	m.escalations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_escalations_total",
		Help: "Tier escalations by origin and destination tier.",
	}, []string{"from", "to"})

	m.providerFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_provider_failures_total",
		Help: "Model invocations that failed after retry, by tier.",
	}, []string{"tier"})

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.gateShortCircuits,
		m.cacheLookups,
		m.escalations,
		m.providerFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(source, vibe string, d time.Duration) {
	m.requestsTotal.WithLabelValues(source, vibe).Inc()
	m.requestDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) RecordGateShortCircuit(intent string) {
	m.gateShortCircuits.WithLabelValues(intent).Inc()
}

func (m *Metrics) RecordCacheLookup(outcome string) {
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordEscalation(from, to string) {
	m.escalations.WithLabelValues(from, to).Inc()
}

func (m *Metrics) RecordProviderFailure(tier string) {
	m.providerFailures.WithLabelValues(tier).Inc()
}
