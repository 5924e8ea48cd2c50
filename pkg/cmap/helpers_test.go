package cmap

import (
	"sync"
	"testing"
)

// releases counts destructor calls per key and per value.
type releases struct {
	mu     sync.Mutex
	keys   map[string]int
	values map[string]int
}

func newReleases() *releases {
	return &releases{
		keys:   make(map[string]int),
		values: make(map[string]int),
	}
}

func (r *releases) key(k string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[k]++
}

func (r *releases) value(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[v]++
}

func (r *releases) keyCount(k string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[k]
}

func (r *releases) valueCount(v string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[v]
}

func (r *releases) total() (keys, values int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.keys {
		keys += n
	}
	for _, n := range r.values {
		values += n
	}
	return keys, values
}

func trackedCallbacks(r *releases, hash HashFunc[string]) Callbacks[string, string] {
	return Callbacks[string, string]{
		Hash:         hash,
		Equal:        Equal[string](),
		DestroyKey:   r.key,
		DestroyValue: r.value,
	}
}

// fixedHash places the listed keys in the given buckets and everything
// else in bucket 0.
func fixedHash(buckets map[string]uint64) HashFunc[string] {
	return func(key string) uint64 {
		return buckets[key]
	}
}

func newTrackedMap(t *testing.T, n int, hash HashFunc[string]) (*Map[string, string], *releases) {
	t.Helper()
	r := newReleases()
	m, err := New(trackedCallbacks(r, hash), WithBucketCount(n))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m, r
}
