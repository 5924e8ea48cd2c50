package cmap

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// entry is one key/value pair and its link in the bucket chain.
type entry[K, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// bucket is one slot of the map: a chain in insertion order and the lock
// that guards it. All methods require mu to be held by the caller.
type bucket[K, V any] struct {
	mu   sync.Mutex
	head *entry[K, V]
	size int

	// Keeps neighbouring bucket locks off the same cache line.
	_ cpu.CacheLinePad
}

// find returns the first entry whose key equals key, or nil.
func (b *bucket[K, V]) find(key K, equal EqualFunc[K]) *entry[K, V] {
	for e := b.head; e != nil; e = e.next {
		if equal(key, e.key) {
			return e
		}
	}
	return nil
}

// put replaces the value of an existing key or appends a new entry at the
// tail. It reports whether an existing entry was replaced.
func (b *bucket[K, V]) put(key K, value V, cb *Callbacks[K, V]) bool {
	var tail *entry[K, V]
	for e := b.head; e != nil; e = e.next {
		if cb.Equal(key, e.key) {
			cb.DestroyValue(e.value)
			cb.DestroyKey(e.key)
			e.key = key
			e.value = value
			return true
		}
		tail = e
	}

	n := &entry[K, V]{key: key, value: value}
	if tail == nil {
		b.head = n
	} else {
		tail.next = n
	}
	b.size++
	return false
}

// remove unlinks and releases the entry for key. It reports whether an
// entry was found.
func (b *bucket[K, V]) remove(key K, cb *Callbacks[K, V]) bool {
	var prev *entry[K, V]
	for e := b.head; e != nil; prev, e = e, e.next {
		if !cb.Equal(key, e.key) {
			continue
		}
		if prev == nil {
			b.head = e.next
		} else {
			prev.next = e.next
		}
		e.next = nil
		b.size--

		cb.DestroyKey(e.key)
		cb.DestroyValue(e.value)
		return true
	}
	return false
}

// drain releases every entry and leaves the chain empty.
// It returns the number of entries released.
func (b *bucket[K, V]) drain(cb *Callbacks[K, V]) int {
	n := 0
	for e := b.head; e != nil; {
		next := e.next
		cb.DestroyKey(e.key)
		cb.DestroyValue(e.value)
		e.next = nil
		e = next
		n++
	}
	b.head = nil
	b.size = 0
	return n
}

// snapshot copies the chain into a slice, in chain order.
func (b *bucket[K, V]) snapshot() []Entry[K, V] {
	if b.size == 0 {
		return nil
	}
	out := make([]Entry[K, V], 0, b.size)
	for e := b.head; e != nil; e = e.next {
		out = append(out, Entry[K, V]{Key: e.key, Value: e.value})
	}
	return out
}
