// Package metrics exposes Prometheus counters for the HTTP surface, the
// agent loop and outbound delivery.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opshub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "opshub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	agentTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opshub_agent_turns_total",
			Help: "Total number of agent turns",
		},
		[]string{"provider", "model", "status"},
	)

	agentTurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "opshub_agent_turn_duration_seconds",
			Help:    "Agent turn duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opshub_tool_calls_total",
			Help: "Total number of tool calls",
		},
		[]string{"tool_name", "status"},
	)

	outboundMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opshub_outbound_messages_total",
			Help: "Total number of outbound channel deliveries",
		},
		[]string{"channel", "status"},
	)
)

// Handler serves the default registry, including Go runtime metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordAgentTurn(provider, model, status string, duration time.Duration) {
	agentTurnsTotal.WithLabelValues(provider, model, status).Inc()
	agentTurnDuration.Observe(duration.Seconds())
}

func RecordToolCall(toolName, status string) {
	toolCallsTotal.WithLabelValues(toolName, status).Inc()
}

func RecordOutboundMessage(channel, status string) {
	outboundMessagesTotal.WithLabelValues(channel, status).Inc()
}
