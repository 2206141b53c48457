// Package transport implements the UDP datagram transport: one message per
// datagram, no framing, no fragmentation (spec.md §6).
package transport

import (
	"fmt"
	"net"

	"udprip/wire"
)

// Port is the well-known UDPRIP listening port.
const Port = 55151

// maxDatagram is generously above any vector this protocol would produce;
// oversized datagrams are not supported per spec.md §4.3.
const maxDatagram = 65507

// Transport owns the single UDP socket bound to (self_address, Port).
type Transport struct {
	conn *net.UDPConn
}

// Listen binds the well-known port on selfAddr. Bind failure is fatal to the
// caller per spec.md §7.
func Listen(selfAddr string) (*Transport, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(selfAddr), Port: Port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind %s:%d: %w", selfAddr, Port, err)
	}
	return &Transport{conn: conn}, nil
}

// Send encodes m and writes it as a single datagram to the given address.
func (t *Transport) Send(m wire.Message, to string) error {
	raw, err := wire.Encode(m)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	addr := &net.UDPAddr{IP: net.ParseIP(to), Port: Port}
	_, err = t.conn.WriteToUDP(raw, addr)
	return err
}

// Recv blocks until one datagram arrives, decodes it, and returns the
// message along with the sender's address. A decode error is returned
// alongside the sender's address so the caller can log-and-drop without
// losing track of who sent the bad datagram.
func (t *Transport) Recv() (wire.Message, string, error) {
	buf := make([]byte, maxDatagram)
	n, addr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return wire.Message{}, "", err
	}

	src := addr.IP.String()
	m, err := wire.Decode(buf[:n])
	if err != nil {
		return wire.Message{}, src, err
	}
	return m, src, nil
}

// Close releases the socket. Any blocked Recv returns net.ErrClosed.
func (t *Transport) Close() error {
	return t.conn.Close()
}
