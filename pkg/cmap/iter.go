package cmap

import (
	"fmt"
	"io"
)

// Entry is a copied key/value pair.
type Entry[K, V any] struct {
	Key   K `json:"key" yaml:"key"`
	Value V `json:"value" yaml:"value"`
}

// BucketSnapshot is a copy of one bucket's chain, in chain order.
type BucketSnapshot[K, V any] struct {
	Index   int           `json:"index" yaml:"index"`
	Entries []Entry[K, V] `json:"entries" yaml:"entries"`
}

// BucketStats holds the entry count of one bucket.
type BucketStats struct {
	Index   int `json:"index" yaml:"index"`
	Entries int `json:"entries" yaml:"entries"`
}

// Buckets returns a copy of every bucket.
//
// Buckets are locked one at a time, so the result is consistent per bucket
// but not across the whole map.
func (m *Map[K, V]) Buckets() []BucketSnapshot[K, V] {
	out := make([]BucketSnapshot[K, V], len(m.buckets))
	for i := range m.buckets {
		out[i] = BucketSnapshot[K, V]{
			Index:   i,
			Entries: m.snapshotBucket(i),
		}
	}
	return out
}

// Range calls fn for every entry until fn returns false.
//
// Each bucket is copied under its lock and fn runs after the lock is
// released, so fn may call into the map. The view is not consistent across
// buckets.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for i := range m.buckets {
		for _, e := range m.snapshotBucket(i) {
			if !fn(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys returns all keys.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Len returns the total number of entries.
func (m *Map[K, V]) Len() int {
	count := 0
	for i := range m.buckets {
		b := &m.buckets[i]
		b.mu.Lock()
		count += b.size
		b.mu.Unlock()
	}
	return count
}

// BucketCount returns the fixed number of buckets.
func (m *Map[K, V]) BucketCount() int {
	return len(m.buckets)
}

// Stats returns the entry count of every bucket.
func (m *Map[K, V]) Stats() []BucketStats {
	stats := make([]BucketStats, len(m.buckets))
	for i := range m.buckets {
		b := &m.buckets[i]
		b.mu.Lock()
		stats[i] = BucketStats{
			Index:   i,
			Entries: b.size,
		}
		b.mu.Unlock()
	}
	return stats
}

// Dump writes every entry grouped by bucket:
//
//	Bucket number[0]
//	No entries in bucket
//	Bucket number[1]
//	Mike Ross, Associate
//
// Each bucket is locked while it is written.
func (m *Map[K, V]) Dump(w io.Writer) error {
	for i := range m.buckets {
		if err := m.dumpBucket(w, i); err != nil {
			return fmt.Errorf("dump bucket %d: %w", i, err)
		}
	}
	return nil
}

func (m *Map[K, V]) dumpBucket(w io.Writer, idx int) error {
	b := &m.buckets[idx]
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := fmt.Fprintf(w, "Bucket number[%d]\n", idx); err != nil {
		return err
	}
	if b.head == nil {
		_, err := fmt.Fprintln(w, "No entries in bucket")
		return err
	}
	for e := b.head; e != nil; e = e.next {
		if _, err := fmt.Fprintf(w, "%v, %v\n", e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Map[K, V]) snapshotBucket(idx int) []Entry[K, V] {
	b := &m.buckets[idx]
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}
