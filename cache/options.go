package cache

import (
	"context"
	"log/slog"
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// Options configures the cache behavior. Only Capacity is required;
// defaults are applied in New():
//   - Shards <= 0  => auto (rounded up to power of two)
//   - nil Hasher   => util.Hash (xxhash over common key types)
//   - nil Metrics  => NoopMetrics
//   - nil Logger   => discard
type Options[K comparable, V any] struct {
	// Capacity is the total entry limit, split across shards so the
	// per-shard limits sum to exactly Capacity.
	Capacity int

	// Shards defines the number of shards. If 0, an automatic value is chosen
	// (≈ 2*GOMAXPROCS). Any value is rounded to the next power of two and
	// reduced until it does not exceed Capacity.
	Shards int

	// Hasher maps a key to a shard. Required for key types util.Hash
	// does not support (e.g. structs).
	Hasher func(K) uint64

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called for every capacity eviction under the shard lock;
	// keep callbacks lightweight and never call back into the cache.
	OnEvict func(k K, v V)

	Metrics Metrics
	Logger  *slog.Logger
}
