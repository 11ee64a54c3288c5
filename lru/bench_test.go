package lru

import (
	"math/rand"
	"testing"
)

// benchmarkMix runs a read/write mix over a keyspace twice the capacity,
// so roughly half of the writes evict.
func benchmarkMix(b *testing.B, readsPct int) {
	const capacity = 1 << 16
	c, err := New[int, int](capacity)
	if err != nil {
		b.Fatal(err)
	}
	for i := range capacity / 2 {
		c.Put(i, i)
	}

	r := rand.New(rand.NewSource(1))
	keys := make([]int, 1<<12)
	for i := range keys {
		keys[i] = r.Intn(2 * capacity)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := keys[i&(len(keys)-1)]
		if i%100 < readsPct {
			c.Get(k)
		} else {
			c.Put(k, i)
		}
	}
}

func BenchmarkLRU_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkLRU_50r50w(b *testing.B) { benchmarkMix(b, 50) }

// Every Put on a full cache evicts; the arena must not allocate.
func BenchmarkLRU_PutEvict(b *testing.B) {
	c, err := New[int, int](1024)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Put(i, i)
	}
}
