package advertise

import (
	"testing"
	"time"

	"udprip/link"
	"udprip/routing"
	"udprip/wire"
)

type sent struct {
	msg wire.Message
	to  string
}

type fakeSender struct {
	out []sent
}

func (f *fakeSender) Send(m wire.Message, to string) error {
	f.out = append(f.out, sent{m, to})
	return nil
}

const self = "127.0.1.1"

func TestTickEmitsOnePerNeighbor(t *testing.T) {
	links := link.New(time.Hour)
	links.Add("B", 1)
	links.Add("C", 1)
	rt := routing.New(self)

	tx := &fakeSender{}
	a := New(self, time.Hour, links, rt, tx)
	a.tick()

	if len(tx.out) != 2 {
		t.Fatalf("got %d updates, want 2", len(tx.out))
	}
	for _, s := range tx.out {
		if s.msg.Type != wire.Update {
			t.Fatalf("message type = %q, want update", s.msg.Type)
		}
	}
}

func TestTickExpiresBeforeAdvertising(t *testing.T) {
	links := link.New(10 * time.Millisecond)
	links.Add("B", 1)
	rt := routing.New(self)
	rt.LearnNeighborVector("B", 1, map[string]int{"C": 1}) // route to C via B

	time.Sleep(30 * time.Millisecond)

	tx := &fakeSender{}
	a := New(self, time.Hour, links, rt, tx)
	a.tick()

	// B expired, so no update should be sent to it, and the route to C
	// (which only existed via B) must already be gone.
	if len(tx.out) != 0 {
		t.Fatalf("expected no updates after sole neighbor expired, got %v", tx.out)
	}
	if _, ok := rt.Distance("C"); ok {
		t.Fatalf("route to C survived its hop's expiry")
	}
}

func TestRunStopsOnSignal(t *testing.T) {
	links := link.New(time.Hour)
	rt := routing.New(self)
	tx := &fakeSender{}
	a := New(self, time.Millisecond, links, rt, tx)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		a.Run(stop)
		close(done)
	}()

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after stop was closed")
	}
}
