package main

/*

  Examples:

  Bring up a two-node network on the loopback range, A talking to B:

  # go run cmd/udprip.go 127.0.1.1 5
  > add 127.0.1.2 10

  # go run cmd/udprip.go 127.0.1.2 5
  > add 127.0.1.1 10

  Replay a sequence of commands from a file before going interactive:

  # go run cmd/udprip.go 127.0.1.1 5 startup.txt

  Serve Prometheus metrics on :9090 in addition to the router:

  # go run cmd/udprip.go --metrics-addr :9090 127.0.1.1 5

*/

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"udprip"
	"udprip/log"
	"udprip/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:           "udprip <self_address> <period_seconds> [<startup_file>]",
		Short:         "Run one node of the UDPRIP distance-vector routing protocol",
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (e.g. :9090); disabled if empty")

	return cmd
}

func run(args []string, metricsAddr string) error {
	self := args[0]

	periodSeconds, err := strconv.ParseFloat(args[1], 64)
	if err != nil || periodSeconds <= 0 {
		return fmt.Errorf("period must be a positive number of seconds, got %q", args[1])
	}
	period := time.Duration(periodSeconds * float64(time.Second))

	logger, err := log.NewZap()
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}

	r, err := udprip.New(self, period, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	r.SetLogger(logger)

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		r.SetMetrics(metrics.New(reg))
		go serveMetrics(metricsAddr, reg)
	}

	r.Start()

	op := r.Operator()

	if len(args) == 3 {
		f, err := os.Open(args[2])
		if err != nil {
			return fmt.Errorf("open startup file: %w", err)
		}
		op.RunStartupFile(f)
		f.Close()
	}

	prompt := func() { fmt.Fprint(os.Stdout, "> ") }
	op.RunInteractive(bufio.NewReader(os.Stdin), prompt)

	r.Stop()
	fmt.Fprintln(os.Stdout, "x router closed")
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	_ = http.ListenAndServe(addr, mux)
}
