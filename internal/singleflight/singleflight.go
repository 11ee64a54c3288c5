// Package singleflight coalesces concurrent loads of the same key.
package singleflight

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPanicked is returned to followers whose leader's fn panicked.
var ErrPanicked = errors.New("singleflight: load panicked")

// Group runs at most one fn per key at a time; concurrent callers for the
// same key wait for the leader's result. The zero value is ready to use.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed after val/err are published
	val  V
	err  error
	dups int
}

// Do runs fn for key unless a call is already in flight, in which case it
// waits for that call. shared reports whether the result went to more than
// one caller.
//
// A follower whose ctx ends stops waiting and returns ctx.Err(); the leader
// keeps running. The leader passes its own ctx to fn.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func(context.Context) (V, error)) (v V, shared bool, err error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		c.dups++
		g.mu.Unlock()

		select {
		case <-c.done:
			return c.val, true, c.err
		case <-ctx.Done():
			var zero V
			return zero, true, ctx.Err()
		}
	}

	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	g.run(ctx, key, c, fn)

	g.mu.Lock()
	shared = c.dups > 0
	g.mu.Unlock()
	return c.val, shared, c.err
}

// run executes fn and publishes its result. A panic is re-raised in the
// leader after followers are released with ErrPanicked.
func (g *Group[K, V]) run(ctx context.Context, key K, c *call[V], fn func(context.Context) (V, error)) {
	normal := false
	defer func() {
		var r any
		if !normal {
			r = recover()
			c.err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}

		g.mu.Lock()
		delete(g.m, key)
		g.mu.Unlock()
		close(c.done)

		if !normal {
			panic(r)
		}
	}()

	c.val, c.err = fn(ctx)
	normal = true
}

// InFlight reports the number of keys currently being loaded.
func (g *Group[K, V]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}
