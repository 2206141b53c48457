// Package metrics exposes the router's internal counters and gauges as
// Prometheus collectors, the pull-based replacement for the teacher's
// poll-a-JSON-snapshot status model (bgp.Session.Status()), which has no
// analogue for a headless routing daemon with no caller to poll it.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one router instance. All
// methods are safe to call on a nil *Metrics (e.g. when metrics are
// disabled), in which case they are no-ops.
type Metrics struct {
	links             prometheus.Gauge
	routes            prometheus.Gauge
	updatesSent       prometheus.Counter
	updatesDropped    prometheus.Counter
	unreachable       prometheus.Counter
	sendFailures      prometheus.Counter
}

// New registers a fresh set of collectors against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		links: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "udprip_links",
			Help: "Current number of configured neighbor links.",
		}),
		routes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "udprip_routes",
			Help: "Current number of destinations in the routing table.",
		}),
		updatesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udprip_updates_sent_total",
			Help: "Total update messages sent by the periodic advertiser.",
		}),
		updatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udprip_updates_dropped_total",
			Help: "Total update messages discarded because their sender is not a configured neighbor.",
		}),
		unreachable: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udprip_unreachable_total",
			Help: "Total control/unreachable messages emitted by the forwarder.",
		}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "udprip_send_failures_total",
			Help: "Total transport-level send failures.",
		}),
	}

	reg.MustRegister(m.links, m.routes, m.updatesSent, m.updatesDropped, m.unreachable, m.sendFailures)
	return m
}

// Handler returns the HTTP handler to serve on the metrics listener, scraping
// the same registry New registered its collectors against.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (m *Metrics) SetLinks(n int) {
	if m == nil {
		return
	}
	m.links.Set(float64(n))
}

func (m *Metrics) SetRoutes(n int) {
	if m == nil {
		return
	}
	m.routes.Set(float64(n))
}

func (m *Metrics) IncUpdatesSent() {
	if m == nil {
		return
	}
	m.updatesSent.Inc()
}

func (m *Metrics) IncUpdatesDropped() {
	if m == nil {
		return
	}
	m.updatesDropped.Inc()
}

func (m *Metrics) IncUnreachable() {
	if m == nil {
		return
	}
	m.unreachable.Inc()
}

func (m *Metrics) IncSendFailures() {
	if m == nil {
		return
	}
	m.sendFailures.Inc()
}
