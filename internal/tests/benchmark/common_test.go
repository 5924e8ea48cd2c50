package benchmark

import (
	"fmt"
	"runtime"
	"strconv"
	"testing"

	"github.com/yndnr/chainmap-go/pkg/cmap"
)

// KeyCounts defines the key counts for benchmarking.
var KeyCounts = []int{1000, 10000, 100000}

// BucketCounts defines the bucket counts for benchmarking. The map never
// resizes, so keys/buckets is the average chain length.
var BucketCounts = []int{10, 256, 4096}

// newMap creates a string map with the named hasher, destroyed when the
// benchmark ends.
func newMap(b *testing.B, hasher string, buckets int) *cmap.Map[string, string] {
	b.Helper()
	m := buildMap(b, hasher, buckets)
	b.Cleanup(m.Destroy)
	return m
}

func buildMap(b *testing.B, hasher string, buckets int) *cmap.Map[string, string] {
	b.Helper()
	hash, err := cmap.HasherByName(hasher, buckets)
	if err != nil {
		b.Fatalf("HasherByName(%q) error = %v", hasher, err)
	}
	m, err := cmap.New(cmap.Callbacks[string, string]{
		Hash:         hash,
		Equal:        cmap.Equal[string](),
		DestroyKey:   cmap.Noop[string](),
		DestroyValue: cmap.Noop[string](),
	}, cmap.WithBucketCount(buckets))
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}
	return m
}

// keys returns count distinct keys.
func keys(count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = "key-" + strconv.Itoa(i)
	}
	return out
}

// prefill puts every key into m.
func prefill(m *cmap.Map[string, string], ks []string) {
	for _, k := range ks {
		m.Put(k, k)
	}
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various key counts.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
