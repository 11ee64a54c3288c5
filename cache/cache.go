package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/IvanBrykalov/lrucache/internal/singleflight"
	"github.com/IvanBrykalov/lrucache/internal/util"
)

var (
	// ErrInvalidCapacity is returned by New when Options.Capacity is not positive.
	ErrInvalidCapacity = errors.New("cache: capacity must be > 0")

	// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
	ErrNoLoader = errors.New("cache: no Loader provided")

	// ErrClosed is returned by GetOrLoad after Close.
	ErrClosed = errors.New("cache: closed")
)

// cache is a sharded in-memory KV store; each shard wraps an lru.LRU.
// All methods are safe for concurrent use by multiple goroutines.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool
	size   atomic.Int64 // resident entries across shards, fed to Metrics.Size

	opt Options[K, V]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - nil Hasher   -> util.Hash
//   - nil Logger   -> discard
//   - Shards <= 0  -> auto, rounded up to the next power of two
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, opt.Capacity)
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Hasher == nil {
		opt.Hasher = util.Hash[K]
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}

	c := &cache[K, V]{
		hash: opt.Hasher,
		opt:  opt,
	}

	// Split capacity so shard limits sum to exactly Capacity; the first
	// Capacity%n shards take one extra entry.
	n := util.ShardCount(opt.Shards, opt.Capacity)
	base, extra := opt.Capacity/n, opt.Capacity%n
	c.shards = make([]*shard[K, V], n)
	for i := range c.shards {
		shardCap := base
		if i < extra {
			shardCap++
		}
		s, err := newShard(shardCap, &c.opt)
		if err != nil {
			return nil, fmt.Errorf("cache: shard %d: %w", i, err)
		}
		c.shards[i] = s
	}
	return c, nil
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Add(k K, v V) bool {
	if c.closed.Load() {
		return false
	}
	added, delta := c.getShard(k).Add(k, v)
	c.grow(delta)
	return added
}

func (c *cache[K, V]) Set(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.grow(c.getShard(k).Set(k, v))
}

func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Get(k)
}

func (c *cache[K, V]) Peek(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Peek(k)
}

func (c *cache[K, V]) Remove(k K) bool {
	if c.closed.Load() {
		return false
	}
	removed := c.getShard(k).Remove(k)
	if removed {
		c.grow(-1)
	}
	return removed
}

func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

func (c *cache[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
		st.Evictions += s.evicts.Load()
		st.Entries += s.Len()
	}
	return st
}

func (c *cache[K, V]) Purge() {
	for _, s := range c.shards {
		c.grow(-s.Purge())
	}
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight).
// Loader errors are returned as-is and nothing is cached.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	v, _, err := c.sf.Do(ctx, k, func(ctx context.Context) (V, error) {
		// double-check after flight join; a previous leader may have stored k
		if v, ok := c.getShard(k).Peek(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err != nil {
			c.opt.Logger.DebugContext(ctx, "cache: load failed", slog.Any("key", k), slog.Any("err", err))
			return v, err
		}
		c.Set(k, v)
		return v, nil
	})
	return v, err
}

// ---- helpers ----

// getShard picks a shard by hashing the key and masking with len-1.
// len(c.shards) is guaranteed to be a power of two.
func (c *cache[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}

// grow applies a resident-count delta and publishes the new size.
func (c *cache[K, V]) grow(delta int) {
	if delta == 0 {
		return
	}
	c.opt.Metrics.Size(int(c.size.Add(int64(delta))))
}
