// Package dispatch implements the packet dispatcher and forwarder: it
// classifies incoming messages, feeds the link/routing tables, delivers
// locally-destined messages, and forwards everything else (spec.md §4.4,
// §4.5).
package dispatch

import (
	"encoding/json"
	"fmt"
	"io"

	"udprip/link"
	"udprip/log"
	"udprip/metrics"
	"udprip/routing"
	"udprip/wire"
)

// Sender transmits an already-built message toward an address. transport.Transport
// satisfies this.
type Sender interface {
	Send(m wire.Message, to string) error
}

// Dispatcher wires the link table, routing table, and transport together.
type Dispatcher struct {
	self string
	rt   *routing.Table
	nbrs *link.Table
	tx   Sender
	out  io.Writer
	logs log.Logger
	mx   *metrics.Metrics
}

// New builds a Dispatcher. out receives locally-delivered data/control
// payloads (one line each); it is normally os.Stdout.
func New(self string, rt *routing.Table, nbrs *link.Table, tx Sender, out io.Writer) *Dispatcher {
	return &Dispatcher{self: self, rt: rt, nbrs: nbrs, tx: tx, out: out, logs: log.Nil{}}
}

// SetLogger installs a Logger; the dispatcher defaults to log.Nil otherwise.
func (d *Dispatcher) SetLogger(l log.Logger) {
	if l != nil {
		d.logs = l
	}
}

// SetMetrics installs a metrics sink; nil disables metrics entirely.
func (d *Dispatcher) SetMetrics(m *metrics.Metrics) {
	d.mx = m
}

// Handle classifies one decoded message received from srcIP and routes it to
// the appropriate handler, per spec.md §4.4.
func (d *Dispatcher) Handle(m wire.Message, srcIP string) {
	switch m.Type {
	case wire.Update:
		d.handleUpdate(m, srcIP)
	case wire.Data:
		d.handleData(m)
	case wire.Trace:
		d.handleTrace(m)
	case wire.Control:
		d.handleControl(m)
	default:
		// Unrecognized type: dropped silently for forward compatibility
		// (spec.md §7), not logged — unlike a genuine decode error.
	}
}

func (d *Dispatcher) handleUpdate(m wire.Message, srcIP string) {
	d.nbrs.Touch(srcIP)
	w, ok := d.nbrs.Weight(srcIP)
	if !ok {
		// Update from a non-neighbor: discarded at the weight lookup.
		d.logs.Dropped("update", "non-neighbor "+srcIP)
		d.mx.IncUpdatesDropped()
		return
	}
	d.rt.LearnNeighborVector(srcIP, w, m.Distances)
}

func (d *Dispatcher) handleData(m wire.Message) {
	if m.Destination == d.self {
		fmt.Fprintln(d.out, m.Payload)
		return
	}
	d.ForwardOrNotify(m)
}

func (d *Dispatcher) handleTrace(m wire.Message) {
	m.Routers = append(m.Routers, d.self)
	if m.Destination == d.self {
		raw, err := json.Marshal(m)
		if err != nil {
			d.logs.Dropped("trace", err.Error())
			return
		}
		reply := wire.NewData(d.self, m.Source, string(raw))
		if err := d.tx.Send(reply, m.Source); err != nil {
			d.logs.SendFailed(m.Source, err)
			d.mx.IncSendFailures()
		}
		return
	}
	d.ForwardOrNotify(m)
}

func (d *Dispatcher) handleControl(m wire.Message) {
	if m.Destination == d.self {
		fmt.Fprintf(d.out, "CONTROL %s -> %v\n", m.Reason, m.Original)
		return
	}
	d.ForwardOrNotify(m)
}

// ForwardOrNotify selects a next hop for m's destination and transmits it
// there. If no route exists, it replies to m's source with a
// control/unreachable instead; if that too is unroutable, it drops silently
// to prevent notification loops (spec.md §4.5, §7).
func (d *Dispatcher) ForwardOrNotify(m wire.Message) {
	if nh, ok := d.rt.NextHop(m.Destination); ok {
		if err := d.tx.Send(m, nh); err != nil {
			d.logs.SendFailed(nh, err)
			d.mx.IncSendFailures()
		}
		return
	}

	ctrl := wire.NewControl(d.self, m.Source, "unreachable", m)
	back, ok := d.rt.NextHop(ctrl.Destination)
	if !ok {
		d.logs.Dropped("unreachable", "no route back to "+ctrl.Destination)
		return
	}
	if err := d.tx.Send(ctrl, back); err != nil {
		d.logs.SendFailed(back, err)
		d.mx.IncSendFailures()
		return
	}
	d.mx.IncUnreachable()
}
