// Package log defines the notification interface injected into the router's
// long-lived components, and a zap-backed implementation of it.
package log

import (
	"go.uber.org/zap"
)

// Logger is the notification interface components take instead of calling a
// global logger directly. Each method corresponds to one ambient event the
// router needs to report; callers that don't care about logging can pass Nil.
type Logger interface {
	LinkUp(ip string, weight int)
	LinkDown(ip string, reason string)
	RouteChanged(dst string, cost int, hops []string)
	DecodeError(from string, err error)
	SendFailed(to string, err error)
	Dropped(kind string, reason string)
}

// Nil discards every event. It is the default Logger for components
// constructed without an explicit logger, mirroring the teacher's log.Nil.
type Nil struct{}

func (Nil) LinkUp(string, int)              {}
func (Nil) LinkDown(string, string)         {}
func (Nil) RouteChanged(string, int, []string) {}
func (Nil) DecodeError(string, error)       {}
func (Nil) SendFailed(string, error)        {}
func (Nil) Dropped(string, string)          {}

// Zap wraps a *zap.SugaredLogger as a Logger.
type Zap struct {
	S *zap.SugaredLogger
}

// NewZap builds a production zap logger and wraps it.
func NewZap() (*Zap, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &Zap{S: l.Sugar()}, nil
}

func (z *Zap) LinkUp(ip string, weight int) {
	z.S.Infow("link up", "neighbor", ip, "weight", weight)
}

func (z *Zap) LinkDown(ip string, reason string) {
	z.S.Infow("link down", "neighbor", ip, "reason", reason)
}

func (z *Zap) RouteChanged(dst string, cost int, hops []string) {
	z.S.Debugw("route changed", "destination", dst, "cost", cost, "hops", hops)
}

func (z *Zap) DecodeError(from string, err error) {
	z.S.Warnw("decode error", "from", from, "error", err)
}

func (z *Zap) SendFailed(to string, err error) {
	z.S.Warnw("send failed", "to", to, "error", err)
}

func (z *Zap) Dropped(kind string, reason string) {
	z.S.Debugw("dropped", "kind", kind, "reason", reason)
}
