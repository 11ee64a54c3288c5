package util

import "runtime"

// maxShards bounds the automatic shard count.
const maxShards = 256

// NextPow2 returns the smallest power of two >= x; 0 and 1 map to 1.
// Results that would overflow are clamped to 1<<63.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	for s := uint(1); s < 64; s <<= 1 {
		x |= x >> s
	}
	x++
	if x == 0 {
		return 1 << 63
	}
	return x
}

// ReasonableShardCount returns nextPow2(2*GOMAXPROCS) clamped to [1, 256].
func ReasonableShardCount() int {
	p := max(runtime.GOMAXPROCS(0), 1)
	return min(int(NextPow2(uint64(2*p))), maxShards)
}

// ShardCount normalizes a requested shard count: non-positive picks
// ReasonableShardCount, anything else is rounded up to a power of two.
// The result never exceeds capacity, so no shard is sized to zero.
func ShardCount(requested, capacity int) int {
	n := requested
	if n <= 0 {
		n = ReasonableShardCount()
	} else {
		n = int(NextPow2(uint64(n)))
	}
	for n > 1 && n > capacity {
		n >>= 1
	}
	return n
}

// ShardIndex maps a hash to a shard index; shards must be a power of two.
func ShardIndex(hash uint64, shards int) int {
	return int(hash & uint64(shards-1))
}
