// Package routing implements the distance-vector routing table: relaxation
// against neighbor vectors, ECMP hop sets, split-horizon export, and hop
// purging on link loss.
package routing

import (
	"math/rand"
	"sort"
	"sync"

	"udprip/log"
)

// INF is the conventional large-cost sentinel from spec.md §6. It is never
// emitted by this implementation; it exists for callers/tests that want to
// construct a vector entry with a conventional "unreachable" cost. Ordinary
// relaxation already suppresses it without special-casing the value.
const INF = 1_000_000

// Route is the table's entry for one destination: a cost and the set of
// neighbors that currently achieve it.
type Route struct {
	Cost int
	Hops map[string]bool
}

// HopList returns the hop set as a sorted slice, for display and tests.
func (r Route) HopList() []string {
	out := make([]string, 0, len(r.Hops))
	for h := range r.Hops {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Table is the process-wide routing table. Every method takes the table
// mutex; compound sequences (expire-then-purge-then-advertise, learn after a
// concurrent purge) are safe because each individual call is atomic and the
// invariants in spec.md §3 hold after every call returns.
type Table struct {
	mutex  sync.Mutex
	self   string
	routes map[string]*Route
	logs   log.Logger
}

// New returns a routing table for self, pre-populated with the mandatory
// zero-cost self route.
func New(self string) *Table {
	t := &Table{
		self:   self,
		routes: make(map[string]*Route),
		logs:   log.Nil{},
	}
	t.routes[self] = &Route{Cost: 0, Hops: map[string]bool{self: true}}
	return t
}

// SetLogger installs a Logger; the table defaults to log.Nil otherwise.
func (t *Table) SetLogger(l log.Logger) {
	if l != nil {
		t.logs = l
	}
}

// LearnNeighborVector folds one neighbor's advertised vector into the table:
// relaxation and ECMP join for improved/tied destinations, then implicit
// withdrawal for routes that were using nbr but no longer should be, per
// spec.md §4.2.
func (t *Table) LearnNeighborVector(nbr string, wNbr int, vector map[string]int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for dst, d := range vector {
		total := wNbr + d
		cur, ok := t.routes[dst]
		switch {
		case !ok:
			t.routes[dst] = &Route{Cost: total, Hops: map[string]bool{nbr: true}}
			t.logs.RouteChanged(dst, total, []string{nbr})
		case total < cur.Cost:
			t.routes[dst] = &Route{Cost: total, Hops: map[string]bool{nbr: true}}
			t.logs.RouteChanged(dst, total, []string{nbr})
		case total == cur.Cost:
			cur.Hops[nbr] = true
		}
	}

	for dst, r := range t.routes {
		if !r.Hops[nbr] {
			continue
		}
		d, ok := vector[dst]
		if !ok {
			continue
		}
		newCost := wNbr + d
		if newCost > r.Cost {
			delete(r.Hops, nbr)
			if len(r.Hops) == 0 {
				delete(t.routes, dst)
				t.logs.RouteChanged(dst, 0, nil)
			}
		}
	}
}

// PurgeHop removes brokenHop from every hop set, deleting any destination
// left with an empty hop set. Invoked on operator del and on link expiry.
func (t *Table) PurgeHop(brokenHop string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.purgeHopLocked(brokenHop)
}

func (t *Table) purgeHopLocked(brokenHop string) {
	for dst, r := range t.routes {
		if !r.Hops[brokenHop] {
			continue
		}
		delete(r.Hops, brokenHop)
		if len(r.Hops) == 0 {
			delete(t.routes, dst)
		}
	}
}

// AddDirect unconditionally installs (weight, {ip}) as the route to ip, even
// if a lower-cost indirect route already existed. Operator intent wins, and
// split horizon then hides this direct route from ip itself.
func (t *Table) AddDirect(ip string, weight int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.routes[ip] = &Route{Cost: weight, Hops: map[string]bool{ip: true}}
	t.logs.RouteChanged(ip, weight, []string{ip})
}

// Export emits every route whose hop set does not contain toNeighbor. Split
// horizon is mandatory; poisoned reverse is out of scope (spec.md §4.2).
func (t *Table) Export(toNeighbor string) map[string]int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	out := make(map[string]int, len(t.routes))
	for dst, r := range t.routes {
		if r.Hops[toNeighbor] {
			continue
		}
		out[dst] = r.Cost
	}
	return out
}

// NextHop returns one hop chosen uniformly at random from dst's hop set, or
// false if no route exists. Each call is an independent draw, realizing
// per-packet ECMP load spreading.
func (t *Table) NextHop(dst string) (string, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	r, ok := t.routes[dst]
	if !ok || len(r.Hops) == 0 {
		return "", false
	}
	return pickRandom(r.Hops), true
}

// Distance returns the current cost to dst, or false if no route exists.
func (t *Table) Distance(dst string) (int, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	r, ok := t.routes[dst]
	if !ok {
		return 0, false
	}
	return r.Cost, true
}

// Len returns the current number of destinations known to the table
// (including the self route).
func (t *Table) Len() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.routes)
}

// Snapshot returns a defensive copy of the table for display (e.g. the
// supplemented "show" operator command).
func (t *Table) Snapshot() map[string]Route {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	out := make(map[string]Route, len(t.routes))
	for dst, r := range t.routes {
		hops := make(map[string]bool, len(r.Hops))
		for h := range r.Hops {
			hops[h] = true
		}
		out[dst] = Route{Cost: r.Cost, Hops: hops}
	}
	return out
}

func pickRandom(hops map[string]bool) string {
	list := make([]string, 0, len(hops))
	for h := range hops {
		list = append(list, h)
	}
	sort.Strings(list) // deterministic ordering before the random draw
	return list[rand.Intn(len(list))]
}
