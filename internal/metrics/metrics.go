// Package metrics defines the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Broadcast hub metrics
var (
	// HubConnectedClients tracks the number of connected display clients.
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients",
			Help: "Number of currently connected display clients",
		},
	)

	// HubSlowClientsEvicted tracks slow clients dropped on broadcast.
	HubSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Total slow display clients evicted due to a full send buffer",
		},
	)

	// HubBroadcastsTotal tracks broadcast events by type.
	HubBroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_broadcasts_total",
			Help: "Total events broadcast to display clients by event type",
		},
		[]string{"type"},
	)
)

// WebSocket connection metrics
var (
	// WebSocketConnectionsTotal tracks connection attempts by result.
	WebSocketConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total WebSocket connection attempts by result (success/error/rejected)",
		},
		[]string{"result"},
	)

	// WebSocketConnectionsRejected tracks rejected attempts by reason.
	WebSocketConnectionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_rejected_total",
			Help: "Total WebSocket connections rejected by reason (rate_limit/per_ip_limit/max_clients)",
		},
		[]string{"reason"},
	)

	// WebSocketMessageSendDuration tracks message send duration.
	WebSocketMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25},
		},
	)

	// WebSocketPingFailures tracks ping failures (client not responding).
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Total WebSocket ping failures",
		},
	)
)

// Settings store metrics
var (
	// SettingsQueryDuration tracks settings query duration by query name.
	SettingsQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "settings_query_duration_seconds",
			Help:    "Settings store query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// SettingsErrorsTotal tracks settings store errors by query name.
	SettingsErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_errors_total",
			Help: "Total settings store errors by query",
		},
		[]string{"query"},
	)
)

// Logo upload metrics
var (
	// LogoUploadsTotal tracks logo uploads by result.
	LogoUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logo_uploads_total",
			Help: "Total logo uploads by result (success/rejected/error)",
		},
		[]string{"result"},
	)
)

// Build information
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels.
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)

// HTTP error metrics live in the internal/errors package:
// http_errors_total{type}.
