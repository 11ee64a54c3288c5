package lru

import (
	"fmt"
	"math"
	"strings"
)

// maxCapacity keeps every slot id, sentinel included, within int32.
const maxCapacity = math.MaxInt32 - 1

// preallocLimit caps the up-front map and arena allocation for large caches.
const preallocLimit = 1 << 12

// LRU is a fixed-capacity key/value cache that evicts the least recently
// used entry. Get, Put, Peek, Remove and eviction are O(1).
//
// A touch is any Get or Put on a resident key; it moves the entry to the
// head of the recency order. LRU is not safe for concurrent use.
type LRU[K comparable, V any] struct {
	capacity int
	index    map[K]int32
	slots    []slot[K, V] // slots[0] is the sentinel
	free     int32        // head of the free list, sentinel if empty
	onEvict  func(k K, v V)
}

// New returns an empty LRU holding at most capacity entries.
// A non-positive capacity yields ErrInvalidCapacity.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*LRU[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	if capacity > maxCapacity {
		return nil, fmt.Errorf("%w: got %d", ErrCapacityTooLarge, capacity)
	}

	var o options[K, V]
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	hint := min(capacity, preallocLimit)
	return &LRU[K, V]{
		capacity: capacity,
		index:    make(map[K]int32, hint),
		slots:    make([]slot[K, V], 1, hint+1),
		onEvict:  o.onEvict,
	}, nil
}

// Get returns the value for k and promotes it to most recently used.
// A miss returns the zero value and false and leaves the cache untouched.
func (c *LRU[K, V]) Get(k K) (V, bool) {
	i, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(i)
	return c.slots[i].val, true
}

// Put inserts or overwrites k and promotes it to most recently used.
// Overwriting never evicts. Inserting into a full cache evicts exactly
// one entry, the least recently used, and reuses its slot.
func (c *LRU[K, V]) Put(k K, v V) {
	if i, ok := c.index[k]; ok {
		c.slots[i].val = v
		c.moveToFront(i)
		return
	}

	var (
		i       int32
		victim  slot[K, V]
		evicted bool
	)
	if len(c.index) >= c.capacity {
		i = c.slots[sentinel].prev
		victim = c.slots[i]
		evicted = true
		c.unlink(i)
		delete(c.index, victim.key)
	} else {
		i = c.alloc()
	}

	c.slots[i].key = k
	c.slots[i].val = v
	c.pushFront(i)
	c.index[k] = i

	if evicted && c.onEvict != nil {
		c.onEvict(victim.key, victim.val)
	}
}

// Peek returns the value for k without changing its recency.
func (c *LRU[K, V]) Peek(k K) (V, bool) {
	i, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return c.slots[i].val, true
}

// Contains reports whether k is resident without changing its recency.
func (c *LRU[K, V]) Contains(k K) bool {
	_, ok := c.index[k]
	return ok
}

// Remove deletes k and reports whether it was resident.
func (c *LRU[K, V]) Remove(k K) bool {
	i, ok := c.index[k]
	if !ok {
		return false
	}
	c.unlink(i)
	delete(c.index, k)
	c.release(i)
	return true
}

// Oldest returns the least recently used entry, the next eviction victim.
func (c *LRU[K, V]) Oldest() (K, V, bool) {
	i := c.slots[sentinel].prev
	if i == sentinel {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	return c.slots[i].key, c.slots[i].val, true
}

// Keys returns the resident keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.index))
	for i := c.slots[sentinel].next; i != sentinel; i = c.slots[i].next {
		keys = append(keys, c.slots[i].key)
	}
	return keys
}

// String renders the entries as "k:v" pairs from most to least recently used.
func (c *LRU[K, V]) String() string {
	var b strings.Builder
	for i := c.slots[sentinel].next; i != sentinel; i = c.slots[i].next {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v:%v", c.slots[i].key, c.slots[i].val)
	}
	return b.String()
}

// Len returns the number of resident entries.
func (c *LRU[K, V]) Len() int { return len(c.index) }

// Cap returns the capacity fixed at construction.
func (c *LRU[K, V]) Cap() int { return c.capacity }

// Purge removes every entry. Capacity and options are kept.
func (c *LRU[K, V]) Purge() {
	clear(c.index)
	clear(c.slots)
	c.slots = c.slots[:1]
	c.free = sentinel
}

// -------------------- arena internals --------------------

// pushFront links slot i at the head in O(1).
func (c *LRU[K, V]) pushFront(i int32) {
	head := c.slots[sentinel].next
	c.slots[i].prev = sentinel
	c.slots[i].next = head
	c.slots[head].prev = i
	c.slots[sentinel].next = i
}

// unlink detaches slot i from the recency list in O(1).
func (c *LRU[K, V]) unlink(i int32) {
	s := &c.slots[i]
	c.slots[s.prev].next = s.next
	c.slots[s.next].prev = s.prev
	s.prev, s.next = sentinel, sentinel
}

// moveToFront promotes slot i to MRU; promoting the head is a no-op.
func (c *LRU[K, V]) moveToFront(i int32) {
	if c.slots[sentinel].next == i {
		return
	}
	c.unlink(i)
	c.pushFront(i)
}

// alloc returns a free slot id, growing the arena only when the free list
// is empty.
func (c *LRU[K, V]) alloc() int32 {
	if i := c.free; i != sentinel {
		c.free = c.slots[i].next
		c.slots[i].next = sentinel
		return i
	}
	c.slots = append(c.slots, slot[K, V]{})
	return int32(len(c.slots) - 1)
}

// release zeroes slot i and pushes it onto the free list.
func (c *LRU[K, V]) release(i int32) {
	c.slots[i] = slot[K, V]{next: c.free}
	c.free = i
}
