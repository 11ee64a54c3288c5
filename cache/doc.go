// Package cache provides a generic, sharded, concurrency-safe cache built
// from single-owner lru.LRU shards, with optional singleflight loading and
// lightweight metrics hooks.
//
// Design
//
//   - Concurrency: the cache is split into shards, each an lru.LRU behind a
//     sync.Mutex. lru.LRU itself is not safe for concurrent use; the shard
//     lock is the external serialization it requires. The default shard
//     count is a power of two chosen by util.ReasonableShardCount.
//
//   - Storage: each lru.LRU keeps a map of key to arena slot and an MRU↔LRU
//     list linked by slot id. All operations are O(1) expected.
//
//   - Capacity: Options.Capacity is split across shards so the per-shard
//     limits sum to exactly Capacity. Eviction is per-shard LRU; use
//     Shards: 1 for a strict global LRU.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using singleflight.
//     If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug metrics/prom to export them.
//
//   - Callbacks: Options.OnEvict(k, v) is called for every capacity eviction.
//
// Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	if err != nil {
//	    return err
//	}
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// With GetOrLoad (singleflight)
//
//	c, _ := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Exporting metrics
//
//	m := prom.New(nil, "lrucache", "demo", nil) // implements Metrics
//	c, _ := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
package cache
