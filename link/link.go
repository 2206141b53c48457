// Package link implements the neighbor/link table: the set of directly
// configured peers, their link weights, and keep-alive based expiry.
package link

import (
	"sync"
	"time"

	"udprip/log"
)

// Link is a directly configured neighbor.
type Link struct {
	Weight   int
	LastSeen time.Time
}

// Table is the process-wide link table. All operations are safe for
// concurrent use by the network receiver, the periodic advertiser, and the
// operator interface.
type Table struct {
	mutex sync.Mutex
	aging time.Duration
	links map[string]*Link
	logs  log.Logger
}

// New returns an empty link table that expires neighbors not heard from in
// aging (normally AGING_FACTOR * period, per spec.md §4.1).
func New(aging time.Duration) *Table {
	return &Table{aging: aging, links: make(map[string]*Link), logs: log.Nil{}}
}

// SetLogger installs a Logger; components default to log.Nil otherwise.
func (t *Table) SetLogger(l log.Logger) {
	if l != nil {
		t.logs = l
	}
}

// Add installs or overwrites the neighbor with the given weight and resets
// its last-seen timestamp to now.
func (t *Table) Add(ip string, weight int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.links[ip] = &Link{Weight: weight, LastSeen: time.Now()}
	t.logs.LinkUp(ip, weight)
}

// Remove deletes the neighbor if present; absent is not an error.
func (t *Table) Remove(ip string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if _, ok := t.links[ip]; ok {
		delete(t.links, ip)
		t.logs.LinkDown(ip, "removed")
	}
}

// Weight looks up the configured link weight for ip.
func (t *Table) Weight(ip string) (int, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	l, ok := t.links[ip]
	if !ok {
		return 0, false
	}
	return l.Weight, true
}

// Touch refreshes the last-seen timestamp for ip if it is a known neighbor.
// Advertisements from non-neighbors are never promoted to links.
func (t *Table) Touch(ip string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if l, ok := t.links[ip]; ok {
		l.LastSeen = time.Now()
	}
}

// Expire removes every neighbor whose last-seen timestamp is older than the
// aging window and returns their addresses.
func (t *Table) Expire() []string {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	now := time.Now()
	var dead []string
	for ip, l := range t.links {
		if now.Sub(l.LastSeen) > t.aging {
			dead = append(dead, ip)
		}
	}
	for _, ip := range dead {
		delete(t.links, ip)
		t.logs.LinkDown(ip, "expired")
	}
	return dead
}

// Len returns the current number of configured neighbors.
func (t *Table) Len() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.links)
}

// Neighbors returns a snapshot of the currently configured neighbor
// addresses, used by the periodic advertiser.
func (t *Table) Neighbors() []string {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	out := make([]string, 0, len(t.links))
	for ip := range t.links {
		out = append(out, ip)
	}
	return out
}
