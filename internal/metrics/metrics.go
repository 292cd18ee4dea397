// Package metrics holds the Prometheus instruments for the catalog client.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Remote source
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_remote_requests_total",
			Help: "Total number of remote catalog requests by outcome",
		},
		[]string{"resource", "outcome"}, // outcome: "ok", "invalid", "empty", "status", "decode", "transport"
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_remote_request_duration_seconds",
			Help:    "Remote catalog request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"resource"},
	)

	// Repository
	RepositoryFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_repository_fetches_total",
			Help: "Repository fetches by where the answer came from",
		},
		[]string{"operation", "source"}, // source: "network", "cache", "error"
	)

	CacheWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_cache_write_errors_total",
			Help: "Write-through cache failures",
		},
		[]string{"operation"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marquee_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_rejections_total",
			Help: "Requests rejected while the circuit was open",
		},
		[]string{"name"},
	)
)

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
