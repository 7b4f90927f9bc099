// Package metrics provides Prometheus metrics for the heat scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Command pipeline
	commandsAccepted prometheus.Counter
	commandsRejected *prometheus.CounterVec
	eventsAppended   prometheus.Counter
	appendConflicts  prometheus.Counter
	replayLatency    prometheus.Histogram
	commandLatency   prometheus.Histogram

	// Event log
	streamCount prometheus.Gauge

	// Broadcast pipeline
	eventBroadcasts   prometheus.Counter
	stateBroadcasts   prometheus.Counter
	snapshotBuilds    prometheus.Counter
	sendFailures      prometheus.Counter
	activeConnections prometheus.Gauge
	eventSubscribers  prometheus.Gauge
	stateSubscribers  prometheus.Gauge
	heartbeatsSent    prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "heatcast",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.commandsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "commands_accepted_total",
		Help:      "Total number of heat commands that produced events",
	})

	m.commandsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "commands_rejected_total",
			Help:      "Total number of heat commands rejected by validation, by reason",
		},
		[]string{"reason"},
	)

	m.eventsAppended = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_appended_total",
		Help:      "Total number of events appended to the log",
	})

	m.appendConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "append_conflicts_total",
		Help:      "Total number of appends rejected by the stream version check",
	})

	m.replayLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_latency_milliseconds",
		Help:      "Histogram of stream replay latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.commandLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "command_latency_milliseconds",
		Help:      "Histogram of end-to-end command handling latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.streamCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_count",
		Help:      "Number of event streams held by the log",
	})

	m.eventBroadcasts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_broadcasts_total",
		Help:      "Total number of event envelopes sent to subscribers",
	})

	m.stateBroadcasts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_broadcasts_total",
		Help:      "Total number of state envelopes sent to subscribers",
	})

	m.snapshotBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_builds_total",
		Help:      "Total number of viewer state rebuilds triggered by broadcasts",
	})

	m.sendFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "send_failures_total",
		Help:      "Total number of failed sends that pruned a connection",
	})

	m.activeConnections = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_connections",
		Help:      "Number of live viewer connections across all heats",
	})

	m.eventSubscribers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_subscribers",
		Help:      "Number of connections subscribed to raw events",
	})

	m.stateSubscribers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_subscribers",
		Help:      "Number of connections subscribed to state snapshots",
	})

	m.heartbeatsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "heartbeats_sent_total",
		Help:      "Total number of ping frames sent to connections",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers record on the global manager.

func RecordCommandAccepted() {
	globalManager.commandsAccepted.Inc()
}

func RecordCommandRejected(reason string) {
	globalManager.commandsRejected.WithLabelValues(reason).Inc()
}

func RecordEventsAppended(n int) {
	globalManager.eventsAppended.Add(float64(n))
}

func RecordAppendConflict() {
	globalManager.appendConflicts.Inc()
}

func RecordReplayLatency(latencyMs float64) {
	globalManager.replayLatency.Observe(latencyMs)
}

func RecordCommandLatency(latencyMs float64) {
	globalManager.commandLatency.Observe(latencyMs)
}

func UpdateStreamCount(count int) {
	globalManager.streamCount.Set(float64(count))
}

func RecordEventBroadcast() {
	globalManager.eventBroadcasts.Inc()
}

func RecordStateBroadcast() {
	globalManager.stateBroadcasts.Inc()
}

func RecordSnapshotBuild() {
	globalManager.snapshotBuilds.Inc()
}

func RecordSendFailure() {
	globalManager.sendFailures.Inc()
}

func UpdateActiveConnections(count int) {
	globalManager.activeConnections.Set(float64(count))
}

func UpdateEventSubscribers(count int) {
	globalManager.eventSubscribers.Set(float64(count))
}

func UpdateStateSubscribers(count int) {
	globalManager.stateSubscribers.Set(float64(count))
}

func RecordHeartbeatSent() {
	globalManager.heartbeatsSent.Inc()
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry for the /metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
