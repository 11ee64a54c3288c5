package lru

import "errors"

var (
	// ErrInvalidCapacity is returned by New when capacity is not positive.
	ErrInvalidCapacity = errors.New("lru: capacity must be > 0")

	// ErrCapacityTooLarge is returned by New when capacity does not fit
	// the arena's int32 slot ids.
	ErrCapacityTooLarge = errors.New("lru: capacity exceeds arena limit")
)
