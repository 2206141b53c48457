package transport

import (
	"testing"
	"time"

	"udprip/wire"
)

func TestSendRecvRoundTrip(t *testing.T) {
	a, err := Listen("127.0.9.1")
	if err != nil {
		t.Fatalf("Listen a: %v", err)
	}
	defer a.Close()

	b, err := Listen("127.0.9.2")
	if err != nil {
		t.Fatalf("Listen b: %v", err)
	}
	defer b.Close()

	m := wire.NewData("127.0.9.1", "127.0.9.2", "hello")
	if err := a.Send(m, "127.0.9.2"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	got, src, err := b.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if src != "127.0.9.1" {
		t.Fatalf("src = %q, want 127.0.9.1", src)
	}
	if got.Type != wire.Data || got.Payload != "hello" {
		t.Fatalf("got %+v, want a data message carrying %q", got, "hello")
	}
}

func TestRecvDecodeErrorKeepsSender(t *testing.T) {
	a, err := Listen("127.0.9.3")
	if err != nil {
		t.Fatalf("Listen a: %v", err)
	}
	defer a.Close()

	b, err := Listen("127.0.9.4")
	if err != nil {
		t.Fatalf("Listen b: %v", err)
	}
	defer b.Close()

	raw := []byte(`{"type":"data"`) // truncated JSON
	if _, err := a.conn.WriteTo(raw, b.conn.LocalAddr()); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, src, err := b.Recv()
	if err == nil {
		t.Fatalf("Recv returned nil error for a truncated datagram")
	}
	if src != "127.0.9.3" {
		t.Fatalf("src = %q, want 127.0.9.3 even on a decode error", src)
	}
}

func TestCloseUnblocksRecv(t *testing.T) {
	a, err := Listen("127.0.9.5")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, _, err := a.Recv()
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	a.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("Recv returned nil error after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Recv did not unblock after Close")
	}
}
