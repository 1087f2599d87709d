// Package metrics exposes engine performance data in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MRamiBalles/emerald/internal/assets"
)

const namespace = "emerald"

// Collector gathers frame, profiling, asset and diagnostics-hub metrics.
// Each engine owns its own Collector and registry.
type Collector struct {
	registry *prometheus.Registry

	frames     prometheus.Counter
	frameDelta prometheus.Histogram
	fps        prometheus.Gauge

	profileScopes *prometheus.HistogramVec
	assetLoads    *prometheus.CounterVec

	wsConnections prometheus.Gauge
	wsMessages    *prometheus.CounterVec
	wsDropped     prometheus.Counter
}

// New creates a collector with a fresh registry, including process metrics.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frame",
			Name:      "updates_total",
			Help:      "Total number of update callbacks run.",
		}),
		frameDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "frame",
			Name:      "delta_seconds",
			Help:      "Measured time between update callbacks.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~0.5s
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "frame",
			Name:      "fps",
			Help:      "Smoothed frames per second.",
		}),
		profileScopes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "scope_duration_seconds",
			Help:      "Duration of named profiling scopes.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}, []string{"scope"}),
		assetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assets",
			Name:      "loads_total",
			Help:      "Asset load requests by kind and cache outcome.",
		}, []string{"kind", "outcome"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "connections",
			Help:      "Active diagnostics WebSocket connections.",
		}),
		wsMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "messages_total",
			Help:      "Diagnostics WebSocket messages.",
		}, []string{"direction"}),
		wsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "dropped_total",
			Help:      "Stats messages dropped by the rate limiter or slow clients.",
		}),
	}

	c.registry.MustRegister(
		c.frames,
		c.frameDelta,
		c.fps,
		c.profileScopes,
		c.assetLoads,
		c.wsConnections,
		c.wsMessages,
		c.wsDropped,
		newProcessCollector(),
		prometheus.NewGoCollector(),
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveFrame records one update callback.
func (c *Collector) ObserveFrame(delta, fps float64) {
	c.frames.Inc()
	c.frameDelta.Observe(delta)
	c.fps.Set(fps)
}

// ObserveProfile matches profiling.Observer.
func (c *Collector) ObserveProfile(name string, elapsed time.Duration) {
	c.profileScopes.WithLabelValues(name).Observe(elapsed.Seconds())
}

// ObserveAssetLoad matches assets.Observer.
func (c *Collector) ObserveAssetLoad(kind assets.Kind, outcome assets.Outcome) {
	c.assetLoads.WithLabelValues(string(kind), string(outcome)).Inc()
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int) {
	c.wsConnections.Add(float64(delta))
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		c.wsMessages.WithLabelValues("in").Inc()
	} else {
		c.wsMessages.WithLabelValues("out").Inc()
	}
}

// RecordWSDrop records a stats message that was not sent.
func (c *Collector) RecordWSDrop() {
	c.wsDropped.Inc()
}
