// Package wire implements the self-describing JSON wire format shared by
// all four UDPRIP message kinds (spec.md §3, §4.3, §6).
package wire

import (
	"encoding/json"
	"fmt"
)

// Type discriminates the four message shapes.
type Type string

const (
	Data    Type = "data"
	Update  Type = "update"
	Trace   Type = "trace"
	Control Type = "control"
)

// Message is the union of all four wire shapes. Only the fields relevant to
// Type are populated; the rest are left at their zero value and omitted from
// the wire encoding.
type Message struct {
	Type        Type   `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`

	Payload string `json:"payload,omitempty"` // data

	Distances map[string]int `json:"distances,omitempty"` // update

	Routers []string `json:"routers,omitempty"` // trace

	Reason   string   `json:"reason,omitempty"`   // control
	Original *Message `json:"original,omitempty"` // control
}

// NewData builds a data message.
func NewData(src, dst, payload string) Message {
	return Message{Type: Data, Source: src, Destination: dst, Payload: payload}
}

// NewUpdate builds an update message carrying a distance vector.
func NewUpdate(src, dst string, distances map[string]int) Message {
	return Message{Type: Update, Source: src, Destination: dst, Distances: distances}
}

// NewTrace builds a trace message with the given routers-so-far.
func NewTrace(src, dst string, routers []string) Message {
	return Message{Type: Trace, Source: src, Destination: dst, Routers: routers}
}

// NewControl builds a control message wrapping the original message that
// triggered it.
func NewControl(src, dst, reason string, original Message) Message {
	return Message{Type: Control, Source: src, Destination: dst, Reason: reason, Original: &original}
}

// Encode serializes m as a single JSON object, the exact payload of one
// datagram.
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses a single datagram into a Message. Malformed JSON or a
// message missing fields required for its declared type is a decode error
// per spec.md §7; the caller logs one line and drops the datagram.
func Decode(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, fmt.Errorf("decode: %w", err)
	}
	if err := m.validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// validate checks the fields required for m's declared type. An unrecognized
// type is not a decode error: spec.md §7 treats it as forward compatibility,
// to be dropped silently by whoever dispatches on Type, not logged here.
func (m Message) validate() error {
	if m.Source == "" || m.Destination == "" {
		return fmt.Errorf("decode: missing source/destination")
	}
	switch m.Type {
	case Data:
		// payload may legitimately be empty
	case Update:
		if m.Distances == nil {
			return fmt.Errorf("decode: update missing distances")
		}
	case Trace:
		if m.Routers == nil {
			return fmt.Errorf("decode: trace missing routers")
		}
	case Control:
		if m.Reason == "" || m.Original == nil {
			return fmt.Errorf("decode: control missing reason/original")
		}
	}
	return nil
}
