// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RoomsTotal tracks total chat rooms created.
	RoomsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_rooms_total",
			Help: "Total chat rooms created",
		},
	)

	// MessagesTotal tracks total messages appended, by message type.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total chat messages appended",
		},
		[]string{"type"},
	)

	// SuggestionDuration tracks suggestion generation duration.
	SuggestionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suggestion_duration_seconds",
			Help:    "Suggestion generation duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"backend", "status"},
	)

	// SuggestionsTotal tracks suggestion outcomes, by backend.
	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestions_total",
			Help: "Total suggestion generation attempts",
		},
		[]string{"backend", "status"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// StateOperationsTotal tracks state save/load outcomes.
	StateOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_operations_total",
			Help: "Total state persistence operations",
		},
		[]string{"operation", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordSuggestion records metrics for a suggestion attempt.
func RecordSuggestion(backend, status string, duration float64) {
	SuggestionDuration.WithLabelValues(backend, status).Observe(duration)
	SuggestionsTotal.WithLabelValues(backend, status).Inc()
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
