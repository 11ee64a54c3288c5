package cache

import "context"

// Cache is a sharded, in-memory key/value cache interface.
// All methods are safe for concurrent use by multiple goroutines.
//
// Each shard is an lru.LRU behind a mutex, so every operation is O(1):
// a hash to pick the shard, a map lookup and a constant number of link
// updates under the shard lock. Recency is tracked per shard; a global
// LRU order only exists with Shards == 1.
type Cache[K comparable, V any] interface {
	// Add inserts k→v only if k is not present.
	// Returns false if the key already exists (no update, no promotion).
	Add(k K, v V) bool

	// Set inserts or updates k→v and promotes the entry to MRU.
	// Inserting into a full shard evicts that shard's LRU entry.
	Set(k K, v V)

	// Get returns the value for k and a boolean flag indicating presence.
	// On hit, the entry is promoted to MRU.
	Get(k K) (V, bool)

	// Peek is Get without promotion or hit/miss accounting.
	Peek(k K) (V, bool)

	// Remove deletes k if present and returns true on success.
	Remove(k K) bool

	// Len returns the total number of resident entries across all shards.
	Len() int

	// Stats returns a snapshot of the cache counters.
	Stats() Stats

	// Purge drops every entry from every shard.
	Purge()

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Close marks the cache closed: reads miss and writes are ignored.
	// It is idempotent and always returns nil.
	Close() error
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}
