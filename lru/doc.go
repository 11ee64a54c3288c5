// Package lru implements a fixed-capacity Least-Recently-Used cache with
// O(1) Get, Put and eviction.
//
// Design
//
//   - Storage: entries live in an arena (a slice of slots) and are linked
//     into an MRU↔LRU doubly linked list by slot id rather than by pointer.
//     Slot 0 is a sentinel: its next is the head (MRU), its prev the tail (LRU).
//
//   - Index: a map[K]int32 stores each key's slot id. Relinking never moves
//     a slot, so the id stays valid for as long as the key is resident.
//
//   - Reuse: slots released by Remove go to a free list threaded through
//     next; an eviction hands the victim's slot straight to the new entry.
//     The arena never grows past capacity+1 slots.
//
// Usage
//
//	c, err := lru.New[int, int](2)
//	if err != nil {
//	    return err
//	}
//	c.Put(1, 1)
//	c.Put(2, 2)
//	c.Get(1)    // 1, true; 1 becomes MRU
//	c.Put(3, 3) // evicts 2
//	c.Get(2)    // 0, false
//
// Thread-safety
//
// An LRU is owned by a single goroutine. Get mutates the recency order, so
// even concurrent readers need external serialization. The cache package
// wraps LRU shards behind mutexes for concurrent use.
package lru
