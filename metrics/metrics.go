package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TrackingMetrics collects live-tracking counters on a private registry so
// multiple instances (tests) never collide.
type TrackingMetrics struct {
	reg *prometheus.Registry

	Subscribers      prometheus.Gauge
	UpdatesPublished prometheus.Counter
	UpdatesDropped   prometheus.Counter
}

// NewTrackingMetrics builds and registers the tracking collectors.
func NewTrackingMetrics() *TrackingMetrics {
	m := &TrackingMetrics{
		reg: prometheus.NewRegistry(),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "caterhub",
			Subsystem: "track",
			Name:      "subscribers",
			Help:      "Currently open tracking stream subscriptions.",
		}),
		UpdatesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "caterhub",
			Subsystem: "track",
			Name:      "updates_published_total",
			Help:      "Location updates accepted from drivers.",
		}),
		UpdatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "caterhub",
			Subsystem: "track",
			Name:      "updates_dropped_total",
			Help:      "Per-sink deliveries dropped due to a full subscriber buffer.",
		}),
	}
	m.reg.MustRegister(m.Subscribers, m.UpdatesPublished, m.UpdatesDropped)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *TrackingMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
