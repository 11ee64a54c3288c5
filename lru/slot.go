package lru

// sentinel is the id of the arena's dummy slot. Its next is the MRU entry
// and its prev the LRU entry; an empty list links the sentinel to itself.
const sentinel int32 = 0

// slot is one arena cell. Resident slots are linked into the recency list;
// free slots are chained through next and carry zero key/value.
type slot[K comparable, V any] struct {
	key K
	val V

	prev int32
	next int32
}
