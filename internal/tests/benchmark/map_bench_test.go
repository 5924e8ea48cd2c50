package benchmark

import (
	"fmt"
	"testing"

	"github.com/yndnr/chainmap-go/pkg/cmap"
)

// BenchmarkChainLength measures lookups as chains grow.
func BenchmarkChainLength(b *testing.B) {
	for _, buckets := range BucketCounts {
		b.Run(fmt.Sprintf("buckets_%d", buckets), func(b *testing.B) {
			runWithKeyCounts(b, KeyCounts, func(b *testing.B, count int) {
				m := newMap(b, cmap.HasherMurmur3, buckets)
				ks := keys(count)
				prefill(m, ks)

				b.ResetTimer()
				b.ReportAllocs()

				for i := 0; i < b.N; i++ {
					if !m.Has(ks[i%len(ks)]) {
						b.Fatal("prefilled key missing")
					}
				}
			})
		})
	}
}

// BenchmarkHashers compares bucket selection cost and spread.
func BenchmarkHashers(b *testing.B) {
	const buckets = 256
	ks := keys(10000)

	for _, hasher := range []string{cmap.HasherMurmur3, cmap.HasherXXHash, cmap.HasherAdditive} {
		b.Run(hasher, func(b *testing.B) {
			m := newMap(b, hasher, buckets)
			prefill(m, ks)

			longest := 0
			for _, s := range m.Stats() {
				longest = max(longest, s.Entries)
			}
			b.ReportMetric(float64(longest), "longest_chain")

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				m.Get(ks[i%len(ks)])
			}
		})
	}
}

// BenchmarkContention runs parallel puts against few and many buckets.
func BenchmarkContention(b *testing.B) {
	ks := keys(10000)

	for _, buckets := range []int{1, 4096} {
		b.Run(fmt.Sprintf("buckets_%d", buckets), func(b *testing.B) {
			m := newMap(b, cmap.HasherXXHash, buckets)

			b.ResetTimer()
			b.ReportAllocs()

			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					k := ks[i%len(ks)]
					m.Put(k, k)
					i++
				}
			})
		})
	}
}

// BenchmarkMemory reports retained memory per key count.
func BenchmarkMemory(b *testing.B) {
	runWithKeyCounts(b, KeyCounts, func(b *testing.B, count int) {
		ks := keys(count)
		for i := 0; i < b.N; i++ {
			m := buildMap(b, cmap.HasherMurmur3, 1024)
			prefill(m, ks)
			m.Destroy()
		}

		b.StopTimer()
		m := buildMap(b, cmap.HasherMurmur3, 1024)
		prefill(m, ks)
		reportMemory(b, "heap")
		m.Destroy()
	})
}
