// Command lrubench exercises the cache packages: bench runs a synthetic
// Zipf workload against the sharded cache and exposes Prometheus/pprof
// endpoints; trace replays get/put ops against a single lru.LRU and prints
// the recency order after each step.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(logger).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "lrubench:", err)
		stop()
		os.Exit(1)
	}
}

func newApp(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "lrubench",
		Usage: "benchmark and trace the LRU cache",
		Commands: []*cli.Command{
			benchCommand(logger),
			traceCommand(),
		},
	}
}
