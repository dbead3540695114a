// Package middleware provides observability instrumentation for the
// SwipeKit server: Prometheus metrics and OpenTelemetry tracing around
// event dispatch.
package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/swipekit-dev/swipekit/pkg/protocol"
	"github.com/swipekit-dev/swipekit/pkg/server"
	"github.com/swipekit-dev/swipekit/pkg/swipe"
)

// MetricsConfig configures the Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "swipekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the event duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "swipekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors.
type metrics struct {
	eventsTotal      *prometheus.CounterVec
	eventDuration    *prometheus.HistogramVec
	transitionsTotal *prometheus.CounterVec
	releasesTotal    *prometheus.CounterVec
	patchesSent      prometheus.Counter
	activeSessions   prometheus.Gauge
	wsErrors         *prometheus.CounterVec
}

// globalMetrics is the singleton collector set, created on first call to
// Prometheus(); registering the same collectors twice would panic.
var (
	globalMetricsMu sync.Mutex
	globalMetrics   *metrics
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total pointer events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Pointer event processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),

		transitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transitions_total",
			Help:        "Total interaction state transitions",
			ConstLabels: config.ConstLabels,
		}, []string{"from", "to"}),

		releasesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "releases_total",
			Help:        "Total drag releases by decided action",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total view patches sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Currently active sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ws_errors_total",
			Help:        "WebSocket and protocol errors by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
	}
}

// Prometheus returns instrumentation recording Prometheus metrics for
// events, transitions, releases, patches, sessions, and errors.
//
// Collectors are created once per process; options only take effect on
// the first call.
func Prometheus(opts ...MetricsOption) *server.Instrumentation {
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		config := defaultMetricsConfig()
		for _, opt := range opts {
			opt(&config)
		}
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return &server.Instrumentation{
		Event: func(next server.EventHandler) server.EventHandler {
			return func(s *server.Session, ev *protocol.Event) {
				start := time.Now()
				next(s, ev)
				typ := ev.Type.String()
				m.eventsTotal.WithLabelValues(typ).Inc()
				m.eventDuration.WithLabelValues(typ).Observe(time.Since(start).Seconds())
			}
		},
		Transition: func(old, next swipe.StateKind) {
			m.transitionsTotal.WithLabelValues(old.String(), next.String()).Inc()
		},
		Release: func(action swipe.ReleaseAction) {
			m.releasesTotal.WithLabelValues(action.String()).Inc()
		},
		SessionOpened: func() { m.activeSessions.Inc() },
		SessionClosed: func() { m.activeSessions.Dec() },
		PatchesSent: func(n int) {
			m.patchesSent.Add(float64(n))
		},
		WSError: func(kind string) {
			m.wsErrors.WithLabelValues(kind).Inc()
		},
	}
}
