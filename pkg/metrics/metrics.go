// Package metrics holds the prometheus collectors of the service.
//
// Exposed at /metrics/prometheus:
//   - external_requests_total{service,result}
//   - external_request_duration_seconds{service}
//   - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
//   - enrichment_pending
//   - taste_analysis_runs_total{result}
//   - active_sessions
//   - websocket_connections
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExternalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_requests_total",
			Help: "Outbound requests to metadata and generation services",
		},
		[]string{"service", "result"},
	)

	ExternalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "external_request_duration_seconds",
			Help:    "Outbound request latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	EnrichmentPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrichment_pending",
			Help: "Records currently awaiting a metadata fetch",
		},
	)

	TasteAnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taste_analysis_runs_total",
			Help: "Taste analysis runs by outcome",
		},
		[]string{"result"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "User sessions holding a live collection subscription",
		},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Open view websocket connections",
		},
	)
)
