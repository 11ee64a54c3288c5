package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/lrucache/cache"
	pmet "github.com/IvanBrykalov/lrucache/metrics/prom"
)

// benchConfig is the parsed form of the bench flags.
type benchConfig struct {
	capacity int
	shards   int
	workers  int
	duration time.Duration
	readPct  int
	keys     int
	zipfS    float64
	zipfV    float64
	seed     int64
	preload  int
	addr     string
}

// benchResult holds the live workload counters.
type benchResult struct {
	reads, writes, hits atomic.Uint64
}

func benchCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "run a synthetic Zipf workload against the sharded cache",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cap", Value: 100_000, Usage: "cache capacity (entries)"},
			&cli.IntFlag{Name: "shards", Value: 0, Usage: "number of shards (0=auto)"},
			&cli.IntFlag{Name: "workers", Value: 2 * runtime.GOMAXPROCS(0), Usage: "number of worker goroutines"},
			&cli.DurationFlag{Name: "duration", Value: 10 * time.Second, Usage: "benchmark duration"},
			&cli.IntFlag{Name: "reads", Value: 80, Usage: "read percentage [0..100]"},
			&cli.IntFlag{Name: "keys", Value: 1_000_000, Usage: "keyspace size"},
			&cli.Float64Flag{Name: "zipf-s", Value: 1.1, Usage: "Zipf s > 1 (skew)"},
			&cli.Float64Flag{Name: "zipf-v", Value: 1.0, Usage: "Zipf v >= 1"},
			&cli.Int64Flag{Name: "seed", Value: time.Now().UnixNano(), Usage: "random seed"},
			&cli.IntFlag{Name: "preload", Value: 0, Usage: "preload entries (0 = cap/2)"},
			&cli.StringFlag{Name: "http", Value: "", Usage: "serve /metrics and /debug/pprof at addr (empty = disabled)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := benchConfig{
				capacity: cmd.Int("cap"),
				shards:   cmd.Int("shards"),
				workers:  cmd.Int("workers"),
				duration: cmd.Duration("duration"),
				readPct:  cmd.Int("reads"),
				keys:     cmd.Int("keys"),
				zipfS:    cmd.Float64("zipf-s"),
				zipfV:    cmd.Float64("zipf-v"),
				seed:     cmd.Int64("seed"),
				preload:  cmd.Int("preload"),
				addr:     cmd.String("http"),
			}
			_, err := runBench(ctx, logger, cfg)
			return err
		},
	}
}

func (cfg benchConfig) validate() error {
	switch {
	case cfg.keys < 1:
		return errors.New("keys must be >= 1")
	case cfg.readPct < 0 || cfg.readPct > 100:
		return errors.New("reads must be within [0, 100]")
	case cfg.zipfS <= 1 || cfg.zipfV < 1:
		return errors.New("zipf requires s > 1 and v >= 1")
	case cfg.duration <= 0:
		return errors.New("duration must be positive")
	}
	return nil
}

func runBench(ctx context.Context, logger *slog.Logger, cfg benchConfig) (benchSummary, error) {
	if err := cfg.validate(); err != nil {
		return benchSummary{}, err
	}

	reg := prometheus.NewRegistry()
	metrics := pmet.New(reg, "lrucache", "bench", nil)
	if cfg.addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
		srv := &http.Server{Addr: cfg.addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("serving metrics and pprof", "addr", cfg.addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server stopped", "err", err)
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	c, err := cache.New(cache.Options[string, string]{
		Capacity: cfg.capacity,
		Shards:   cfg.shards,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		return benchSummary{}, err
	}
	defer func() { _ = c.Close() }()

	// Preload half capacity to get a realistic hit-rate.
	pl := cfg.preload
	if pl == 0 {
		pl = cfg.capacity / 2
	}
	for i := 0; i < pl; i++ {
		c.Set("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}

	workers := max(cfg.workers, 1)
	logger.Info("bench starting",
		"cap", cfg.capacity, "shards", cfg.shards, "workers", workers,
		"keys", cfg.keys, "duration", cfg.duration, "seed", cfg.seed)

	runCtx, cancel := context.WithTimeout(ctx, cfg.duration)
	defer cancel()

	var res benchResult
	start := time.Now()
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			runWorker(runCtx, c, cfg, int64(w), &res)
			return nil
		})
	}
	_ = g.Wait() // workers only stop on ctx
	elapsed := time.Since(start)

	sum := benchSummary{
		elapsed: elapsed,
		reads:   res.reads.Load(),
		writes:  res.writes.Load(),
		hits:    res.hits.Load(),
		stats:   c.Stats(),
	}
	logger.Info("bench done",
		"elapsed", sum.elapsed,
		"ops", sum.reads+sum.writes,
		"ops_per_sec", float64(sum.reads+sum.writes)/elapsed.Seconds(),
		"reads", sum.reads,
		"writes", sum.writes,
		"hit_rate_pct", sum.hitRate(),
		"evictions", sum.stats.Evictions,
		"entries", sum.stats.Entries)
	return sum, nil
}

// benchSummary is what a finished run reports.
type benchSummary struct {
	elapsed             time.Duration
	reads, writes, hits uint64
	stats               cache.Stats
}

func (s benchSummary) hitRate() float64 {
	if s.reads == 0 {
		return 0
	}
	return float64(s.hits) / float64(s.reads) * 100
}

// runWorker issues ops until ctx ends. Each worker owns its RNG and Zipf
// source (rand.Rand is not goroutine-safe).
func runWorker(ctx context.Context, c cache.Cache[string, string], cfg benchConfig, id int64, res *benchResult) {
	r := rand.New(rand.NewSource(cfg.seed + id*9973))
	zipf := rand.NewZipf(r, cfg.zipfS, cfg.zipfV, uint64(cfg.keys-1))
	key := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

	for ctx.Err() == nil {
		if int(r.Int31n(100)) < cfg.readPct {
			res.reads.Add(1)
			if _, ok := c.Get(key()); ok {
				res.hits.Add(1)
			}
			continue
		}
		res.writes.Add(1)
		c.Set(key(), "v"+strconv.Itoa(r.Int()))
	}
}
