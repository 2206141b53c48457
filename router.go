// Package udprip implements a single node of the UDPRIP distance-vector
// routing protocol: a link table, a routing table, a UDP transport, a
// dispatcher/forwarder, and a periodic advertiser, wired together the way
// director.go wires cue's monitor, balancer, and BGP session.
package udprip

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"udprip/advertise"
	"udprip/dispatch"
	"udprip/link"
	"udprip/log"
	"udprip/metrics"
	"udprip/operator"
	"udprip/routing"
	"udprip/transport"
)

// AgingFactor is the number of missed periods that triggers link expiry
// (spec.md §3, §4.6).
const AgingFactor = 4

// Router owns the process-wide Link Table and Routing Table and drives the
// network receiver and periodic advertiser as concurrent goroutines. The
// operator interface is driven by the caller (normally cmd/udprip) since it
// owns stdin.
type Router struct {
	Self   string
	Period time.Duration

	links *link.Table
	rt    *routing.Table
	tx    *transport.Transport
	disp  *dispatch.Dispatcher
	adv   *advertise.Advertiser
	op    *operator.Operator

	logs log.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New binds the UDP socket on self and wires up the tables, dispatcher,
// advertiser, and operator. Bind failure is fatal per spec.md §7.
func New(self string, period time.Duration, stdout, stderr io.Writer) (*Router, error) {
	tx, err := transport.Listen(self)
	if err != nil {
		return nil, err
	}

	links := link.New(time.Duration(AgingFactor) * period)
	rt := routing.New(self)
	disp := dispatch.New(self, rt, links, tx, stdout)
	adv := advertise.New(self, period, links, rt, tx)
	op := operator.New(self, links, rt, disp, stdout, stderr)

	return &Router{
		Self:   self,
		Period: period,
		links:  links,
		rt:     rt,
		tx:     tx,
		disp:   disp,
		adv:    adv,
		op:     op,
		logs:   log.Nil{},
	}, nil
}

// SetLogger installs a Logger across every component.
func (r *Router) SetLogger(l log.Logger) {
	if l == nil {
		return
	}
	r.logs = l
	r.links.SetLogger(l)
	r.rt.SetLogger(l)
	r.disp.SetLogger(l)
	r.adv.SetLogger(l)
}

// SetMetrics installs a metrics sink across the components that report it.
func (r *Router) SetMetrics(m *metrics.Metrics) {
	r.disp.SetMetrics(m)
	r.adv.SetMetrics(m)
}

// Operator returns the operator command interpreter, for the caller to feed
// from a startup file and/or interactive stdin.
func (r *Router) Operator() *operator.Operator {
	return r.op
}

// Links and RoutingTable expose the underlying tables for callers that need
// direct introspection, such as tests.
func (r *Router) Links() *link.Table       { return r.links }
func (r *Router) RoutingTable() *routing.Table { return r.rt }

// Start launches the network receiver and the periodic advertiser as
// background goroutines. It returns immediately.
func (r *Router) Start() {
	r.stop = make(chan struct{})
	r.wg.Add(2)

	go func() {
		defer r.wg.Done()
		r.receiveLoop()
	}()

	go func() {
		defer r.wg.Done()
		r.adv.Run(r.stop)
	}()
}

// receiveLoop is the network receiver activity: it blocks on datagram
// arrival and hands each decoded message to the dispatcher. A decode error
// or any other receive error, other than the socket being closed on
// shutdown, is logged and the loop continues; a closed socket ends the loop.
func (r *Router) receiveLoop() {
	for {
		m, src, err := r.tx.Recv()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			r.logs.DecodeError(src, err)
			continue
		}
		r.disp.Handle(m, src)
	}
}

// Stop signals shutdown: the advertiser and receiver cease on their next
// wake/poll, and the transport socket is released. No message is guaranteed
// to be delivered after Stop begins (spec.md §5).
func (r *Router) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
		r.tx.Close()
		r.wg.Wait()
	})
}
