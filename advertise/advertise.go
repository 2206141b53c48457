// Package advertise implements the periodic advertiser: link expiry
// followed by one update per surviving neighbor, on a fixed period
// (spec.md §4.6).
package advertise

import (
	"time"

	"udprip/link"
	"udprip/log"
	"udprip/metrics"
	"udprip/routing"
	"udprip/wire"
)

// Sender transmits a built message toward an address.
type Sender interface {
	Send(m wire.Message, to string) error
}

// Advertiser drives the periodic tick. Expiry and purging complete before
// any update is emitted on the same tick, so neighbors never receive a
// vector that still references a route through a hop this node just
// declared dead.
type Advertiser struct {
	self   string
	period time.Duration
	nbrs   *link.Table
	rt     *routing.Table
	tx     Sender
	logs   log.Logger
	mx     *metrics.Metrics
}

// New builds an Advertiser for self, ticking every period.
func New(self string, period time.Duration, nbrs *link.Table, rt *routing.Table, tx Sender) *Advertiser {
	return &Advertiser{self: self, period: period, nbrs: nbrs, rt: rt, tx: tx, logs: log.Nil{}}
}

// SetLogger installs a Logger; the advertiser defaults to log.Nil otherwise.
func (a *Advertiser) SetLogger(l log.Logger) {
	if l != nil {
		a.logs = l
	}
}

// SetMetrics installs a metrics sink; nil disables metrics entirely.
func (a *Advertiser) SetMetrics(m *metrics.Metrics) {
	a.mx = m
}

// Run blocks, ticking every period until stop is closed. It is meant to be
// invoked as its own goroutine from router.go.
func (a *Advertiser) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(a.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.tick()
		}
	}
}

func (a *Advertiser) tick() {
	for _, dead := range a.nbrs.Expire() {
		a.rt.PurgeHop(dead)
	}

	a.mx.SetLinks(a.nbrs.Len())
	a.mx.SetRoutes(a.rt.Len())

	for _, n := range a.nbrs.Neighbors() {
		vec := a.rt.Export(n)
		if err := a.tx.Send(wire.NewUpdate(a.self, n, vec), n); err != nil {
			a.logs.SendFailed(n, err)
			a.mx.IncSendFailures()
			continue
		}
		a.mx.IncUpdatesSent()
	}
}
