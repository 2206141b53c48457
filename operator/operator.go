// Package operator implements the operator interface: add/del/trace/quit
// (plus the supplemented show), fed first from an optional startup file and
// then from interactive stdin, both through the same command executor
// (spec.md §4.7, SPEC_FULL.md §5).
package operator

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"udprip/dispatch"
	"udprip/link"
	"udprip/routing"
	"udprip/wire"
)

// Operator mutates the link/routing tables synchronously in response to
// operator commands.
type Operator struct {
	self   string
	links  *link.Table
	rt     *routing.Table
	fwd    *dispatch.Dispatcher
	out    io.Writer
	errOut io.Writer
}

// New builds an Operator. out/errOut receive line-oriented output and error
// diagnostics respectively, per spec.md §6.
func New(self string, links *link.Table, rt *routing.Table, fwd *dispatch.Dispatcher, out, errOut io.Writer) *Operator {
	return &Operator{self: self, links: links, rt: rt, fwd: fwd, out: out, errOut: errOut}
}

// Exec runs one command line and reports whether it was "quit".
func (o *Operator) Exec(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	parts := strings.Fields(line)

	switch parts[0] {
	case "add":
		if len(parts) != 3 {
			o.usage()
			return false
		}
		w, err := strconv.Atoi(parts[2])
		if err != nil || w <= 0 {
			fmt.Fprintln(o.errOut, "add: weight must be a positive integer")
			return false
		}
		ip := parts[1]
		o.links.Add(ip, w)
		o.rt.AddDirect(ip, w)
		fmt.Fprintf(o.out, "+ link %s/%d\n", ip, w)

	case "del":
		if len(parts) != 2 {
			o.usage()
			return false
		}
		ip := parts[1]
		o.links.Remove(ip)
		o.rt.PurgeHop(ip)
		fmt.Fprintf(o.out, "- link %s\n", ip)

	case "trace":
		if len(parts) != 2 {
			o.usage()
			return false
		}
		dst := parts[1]
		t := wire.NewTrace(o.self, dst, []string{o.self})
		o.fwd.ForwardOrNotify(t)

	case "show":
		o.show()

	case "quit":
		return true

	default:
		o.usage()
	}
	return false
}

func (o *Operator) show() {
	snap := o.rt.Snapshot()
	dsts := make([]string, 0, len(snap))
	for dst := range snap {
		dsts = append(dsts, dst)
	}
	sort.Strings(dsts)
	for _, dst := range dsts {
		r := snap[dst]
		fmt.Fprintf(o.out, "%s cost=%d hops=%v\n", dst, r.Cost, r.HopList())
	}
}

func (o *Operator) usage() {
	fmt.Fprintln(o.errOut, "Commands: add <ip> <weight>, del <ip>, trace <ip>, show, quit")
}

// RunStartupFile executes each non-empty line of r, in order, through
// Exec. A "quit" line or an unexpected error while reading stops early.
func (o *Operator) RunStartupFile(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if o.Exec(scanner.Text()) {
			return
		}
	}
}

// RunInteractive reads lines from in (normally os.Stdin) until EOF or a
// "quit" command, executing each through Exec, and returns when either
// happens. prompt is called before each line is read.
func (o *Operator) RunInteractive(in io.Reader, prompt func()) {
	scanner := bufio.NewScanner(in)
	for {
		prompt()
		if !scanner.Scan() {
			return
		}
		if o.Exec(scanner.Text()) {
			return
		}
	}
}
