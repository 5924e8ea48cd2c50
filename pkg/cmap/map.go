package cmap

import (
	"fmt"
	"log/slog"
	"time"
)

// Map is a concurrent hash map with a fixed number of independently
// locked buckets.
type Map[K, V any] struct {
	buckets  []bucket[K, V]
	cb       Callbacks[K, V]
	observer Observer
	logger   *slog.Logger

	nilKeys   bool
	nilValues bool
}

// New creates a map with the given callbacks.
//
// It fails with ErrNilCallback if any required callback is nil and with
// ErrInvalidBucketCount if WithBucketCount was given a non-positive count.
func New[K, V any](cb Callbacks[K, V], opts ...Option) (*Map[K, V], error) {
	if err := cb.validate(); err != nil {
		return nil, err
	}

	o := options{
		bucketCount: DefaultBucketCount,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bucketCount < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBucketCount, o.bucketCount)
	}

	m := &Map[K, V]{
		buckets:   make([]bucket[K, V], o.bucketCount),
		cb:        cb,
		observer:  o.observer,
		logger:    o.logger,
		nilKeys:   nillable[K](),
		nilValues: nillable[V](),
	}

	m.logger.Debug("concurrent map created",
		"buckets", o.bucketCount,
		"observed", o.observer != nil,
	)
	return m, nil
}

// Put inserts key with value, or replaces the existing entry for key.
//
// The map takes ownership of key and value. When an entry is replaced, the
// old value and old key are passed to DestroyValue and DestroyKey. Nil or
// rejected input is ignored.
func (m *Map[K, V]) Put(key K, value V) {
	if !m.validKey(key) || !m.validValue(value) {
		m.logger.Debug("put ignored: invalid key or value")
		return
	}

	idx := m.bucketIndex(key)
	b := m.lock(idx)
	defer b.mu.Unlock()

	replaced := b.put(key, value, &m.cb)
	m.observe(OpPut, idx, replaced)
}

// Remove deletes the entry for key and releases its key and value.
// Removing an absent key does nothing.
func (m *Map[K, V]) Remove(key K) {
	if !m.validKey(key) {
		m.logger.Debug("remove ignored: invalid key")
		return
	}

	idx := m.bucketIndex(key)
	b := m.lock(idx)
	defer b.mu.Unlock()

	removed := b.remove(key, &m.cb)
	m.observe(OpRemove, idx, removed)
}

// Get returns the value stored for key.
//
// The bucket lock is released before Get returns, so the value may be
// replaced or removed, and passed to DestroyValue, by another goroutine
// while the caller still holds it. Use GetFunc to read under the lock.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if !m.validKey(key) {
		return zero, false
	}

	idx := m.bucketIndex(key)
	b := m.lock(idx)
	defer b.mu.Unlock()

	e := b.find(key, m.cb.Equal)
	m.observe(OpGet, idx, e != nil)
	if e == nil {
		return zero, false
	}
	return e.value, true
}

// GetFunc calls fn with the value stored for key while the bucket lock is
// held, and reports whether key was present. fn must not call into the map.
func (m *Map[K, V]) GetFunc(key K, fn func(value V)) bool {
	if !m.validKey(key) {
		return false
	}

	idx := m.bucketIndex(key)
	b := m.lock(idx)
	defer b.mu.Unlock()

	e := b.find(key, m.cb.Equal)
	m.observe(OpGet, idx, e != nil)
	if e == nil {
		return false
	}
	fn(e.value)
	return true
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	return m.GetFunc(key, func(V) {})
}

// Destroy releases every remaining key and value and drops all buckets.
//
// Destroy must be called at most once and never concurrently with any
// other method. The map must not be used afterwards.
func (m *Map[K, V]) Destroy() {
	released := 0
	for i := range m.buckets {
		b := &m.buckets[i]
		b.mu.Lock()
		released += b.drain(&m.cb)
		b.mu.Unlock()
	}
	m.buckets = nil

	m.logger.Debug("concurrent map destroyed", "released", released)
}

// bucketIndex returns the bucket for key.
func (m *Map[K, V]) bucketIndex(key K) int {
	return int(m.cb.Hash(key) % uint64(len(m.buckets)))
}

// lock acquires the lock of bucket idx and returns the bucket.
func (m *Map[K, V]) lock(idx int) *bucket[K, V] {
	b := &m.buckets[idx]
	if m.observer == nil {
		b.mu.Lock()
		return b
	}

	start := time.Now()
	b.mu.Lock()
	m.observer.ObserveLockWait(idx, time.Since(start))
	return b
}

func (m *Map[K, V]) observe(op Op, idx int, hit bool) {
	if m.observer != nil {
		m.observer.ObserveOp(op, idx, hit)
	}
}

func (m *Map[K, V]) validKey(key K) bool {
	if m.nilKeys && isNil(key) {
		return false
	}
	return m.cb.ValidKey == nil || m.cb.ValidKey(key)
}

func (m *Map[K, V]) validValue(value V) bool {
	if m.nilValues && isNil(value) {
		return false
	}
	return m.cb.ValidValue == nil || m.cb.ValidValue(value)
}
