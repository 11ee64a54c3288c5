package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/IvanBrykalov/lrucache/lru"
)

// errBadOp marks a malformed trace op.
var errBadOp = errors.New("bad op")

// op is one parsed trace step: a get of key, or a put of key=val.
type op struct {
	put      bool
	key, val int
}

func traceCommand() *cli.Command {
	return &cli.Command{
		Name:      "trace",
		Usage:     "replay get/put ops against an lru.LRU[int,int] and print the recency order",
		ArgsUsage: "[put:K:V | get:K]...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cap", Value: 2, Usage: "cache capacity (entries)"},
			&cli.IntFlag{Name: "random", Value: 0, Usage: "with no ops given, generate N put(i,i)/get(rand) rounds"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "random seed for --random"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var ops []op
			if args := cmd.Args().Slice(); len(args) > 0 {
				parsed, err := parseOps(args)
				if err != nil {
					return err
				}
				ops = parsed
			} else {
				ops = randomOps(cmd.Int("random"), cmd.Int("cap"), cmd.Int64("seed"))
			}
			return runTrace(cmd.Root().Writer, cmd.Int("cap"), ops)
		},
	}
}

// parseOps parses "put:K:V" and "get:K" tokens.
func parseOps(args []string) ([]op, error) {
	ops := make([]op, 0, len(args))
	for _, a := range args {
		parts := strings.Split(a, ":")
		var (
			o   op
			err error
		)
		switch {
		case parts[0] == "get" && len(parts) == 2:
			o.key, err = strconv.Atoi(parts[1])
		case parts[0] == "put" && len(parts) == 3:
			o.put = true
			if o.key, err = strconv.Atoi(parts[1]); err == nil {
				o.val, err = strconv.Atoi(parts[2])
			}
		default:
			return nil, fmt.Errorf("%w %q: want put:K:V or get:K", errBadOp, a)
		}
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", errBadOp, a, err)
		}
		ops = append(ops, o)
	}
	return ops, nil
}

// randomOps alternates put(i, i) with get of a random key below capacity.
func randomOps(rounds, capacity int, seed int64) []op {
	if rounds <= 0 || capacity <= 0 {
		return nil
	}
	r := rand.New(rand.NewSource(seed))
	ops := make([]op, 0, 2*rounds)
	for i := range rounds {
		ops = append(ops, op{put: true, key: i, val: i}, op{key: r.Intn(capacity)})
	}
	return ops
}

// runTrace applies ops in order, writing one line per op with its result
// and the cache contents from most to least recently used.
func runTrace(w io.Writer, capacity int, ops []op) error {
	c, err := lru.New(capacity, lru.WithOnEvict(func(k, v int) {
		fmt.Fprintf(w, "  evict %d:%d\n", k, v)
	}))
	if err != nil {
		return err
	}

	for _, o := range ops {
		if o.put {
			c.Put(o.key, o.val)
			fmt.Fprintf(w, "put %d %d -> [%s]\n", o.key, o.val, c)
			continue
		}
		res := "miss"
		if v, ok := c.Get(o.key); ok {
			res = strconv.Itoa(v)
		}
		fmt.Fprintf(w, "get %d = %s -> [%s]\n", o.key, res, c)
	}
	return nil
}
