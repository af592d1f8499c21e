// Package metrics exposes prometheus collectors for the dispatch engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set holds the collectors the hub updates.
type Set struct {
	registry *prometheus.Registry

	Connections   prometheus.Gauge
	Messages      prometheus.Counter
	DroppedEvents prometheus.Counter
}

// New builds a metric set on a fresh registry.
func New() *Set {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Set{
		registry: reg,
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pulsechat_connections",
			Help: "Number of currently registered client connections.",
		}),
		Messages: factory.NewCounter(prometheus.CounterOpts{
			Name: "pulsechat_messages_total",
			Help: "Total messages appended to history.",
		}),
		DroppedEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "pulsechat_dropped_events_total",
			Help: "Events dropped because a client's buffer was full.",
		}),
	}
}

// Handler returns the prometheus scrape handler for this set.
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
