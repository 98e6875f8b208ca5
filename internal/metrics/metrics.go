// Package metrics exposes Prometheus self-observability for the shim
// daemon: what was emitted, what was suppressed, and what the transport
// dropped. All methods are nil-receiver safe so the core can run without
// metrics wired.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry         *prometheus.Registry
	eventsEmitted    *prometheus.CounterVec
	eventsSuppressed *prometheus.CounterVec
	framesDropped    prometheus.Gauge
}

// New creates and registers the shim's metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	eventsEmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shim_events_emitted_total",
		Help: "Canonical events forwarded to the collector, by event name",
	}, []string{"event"})
	eventsSuppressed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shim_events_suppressed_total",
		Help: "Events dropped before forwarding, by reason",
	}, []string{"reason"})
	framesDropped := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shim_collector_frames_dropped",
		Help: "Frames dropped by the collector transport send buffer",
	})

	registry.MustRegister(eventsEmitted, eventsSuppressed, framesDropped)

	return &Metrics{
		registry:         registry,
		eventsEmitted:    eventsEmitted,
		eventsSuppressed: eventsSuppressed,
		framesDropped:    framesDropped,
	}
}

// EventEmitted records one forwarded canonical event.
func (m *Metrics) EventEmitted(name string) {
	if m == nil {
		return
	}
	m.eventsEmitted.WithLabelValues(name).Inc()
}

// EventSuppressed records one suppressed event with the suppression reason
// ("not_ready", "transform", "recoverable", "duplicate_error").
func (m *Metrics) EventSuppressed(reason string) {
	if m == nil {
		return
	}
	m.eventsSuppressed.WithLabelValues(reason).Inc()
}

// SetFramesDropped refreshes the transport drop gauge.
func (m *Metrics) SetFramesDropped(n int64) {
	if m == nil {
		return
	}
	m.framesDropped.Set(float64(n))
}

// Handler returns an http.Handler serving the registry. updateGauges runs
// before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
