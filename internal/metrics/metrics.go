// internal/metrics/metrics.go

// Package metrics registers the Prometheus instruments the server exposes
// on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts API requests by method, path template and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "simstudio",
		Name:      "http_requests_total",
		Help:      "API requests processed.",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency per path template.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "simstudio",
		Name:      "http_request_duration_seconds",
		Help:      "API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	// DocumentOps counts scenario document mutations by operation name.
	DocumentOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "simstudio",
		Name:      "document_operations_total",
		Help:      "Scenario document mutations applied.",
	}, []string{"op"})

	// PlacementCollisions counts drag moves that resolved to an overlapping
	// position.
	PlacementCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "simstudio",
		Name:      "placement_collisions_total",
		Help:      "Drag moves applied while overlapping another item.",
	})

	// ScenariosSaved counts successful document saves.
	ScenariosSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "simstudio",
		Name:      "scenarios_saved_total",
		Help:      "Scenario documents persisted.",
	})

	// WebsocketSessions gauges connected studio clients.
	WebsocketSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "simstudio",
		Name:      "websocket_sessions",
		Help:      "Connected studio websocket clients.",
	})
)
