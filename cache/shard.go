package cache

import (
	"sync"

	"github.com/IvanBrykalov/lrucache/internal/util"
	"github.com/IvanBrykalov/lrucache/lru"
)

// shard is an independent partition of the cache: a single-owner lru.LRU
// made safe for concurrent use by its own lock.
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu  sync.Mutex // Get promotes, so reads need the write lock too
	lru *lru.LRU[K, V]

	opt *Options[K, V]

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedCounter
	misses util.PaddedCounter
	evicts util.PaddedCounter
}

func newShard[K comparable, V any](capacity int, opt *Options[K, V]) (*shard[K, V], error) {
	s := &shard[K, V]{opt: opt}
	l, err := lru.New(capacity, lru.WithOnEvict(s.evicted))
	if err != nil {
		return nil, err
	}
	s.lru = l
	return s, nil
}

// Add inserts k only if absent and reports whether it did, along with the
// change in resident entries (0 when the insert evicted).
func (s *shard[K, V]) Add(k K, v V) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lru.Contains(k) {
		return false, 0
	}
	before := s.lru.Len()
	s.lru.Put(k, v)
	return true, s.lru.Len() - before
}

// Set inserts or updates k and returns the change in resident entries
// (1 for a fresh insert into a non-full shard, 0 otherwise).
func (s *shard[K, V]) Set(k K, v V) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.lru.Len()
	s.lru.Put(k, v)
	return s.lru.Len() - before
}

func (s *shard[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.lru.Get(k)
	if ok {
		s.hits.Add(1)
		s.opt.Metrics.Hit()
	} else {
		s.misses.Add(1)
		s.opt.Metrics.Miss()
	}
	return v, ok
}

func (s *shard[K, V]) Peek(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Peek(k)
}

func (s *shard[K, V]) Remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Explicit Remove is not counted as an eviction.
	return s.lru.Remove(k)
}

func (s *shard[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Purge empties the shard and returns how many entries it dropped.
func (s *shard[K, V]) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.lru.Len()
	s.lru.Purge()
	return n
}

// evicted is the lru.WithOnEvict hook; it runs inside Put with mu held.
func (s *shard[K, V]) evicted(k K, v V) {
	s.evicts.Add(1)
	s.opt.Metrics.Evict()
	if cb := s.opt.OnEvict; cb != nil {
		cb(k, v)
	}
}
