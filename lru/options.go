package lru

// Option configures an LRU at construction time.
type Option[K comparable, V any] func(*options[K, V])

type options[K comparable, V any] struct {
	onEvict func(k K, v V)
}

// WithOnEvict registers fn to be called for every capacity eviction.
// It runs synchronously inside Put, after the victim has left the cache
// and the new entry is resident. Remove and Purge do not call it.
func WithOnEvict[K comparable, V any](fn func(k K, v V)) Option[K, V] {
	return func(o *options[K, V]) {
		o.onEvict = fn
	}
}
