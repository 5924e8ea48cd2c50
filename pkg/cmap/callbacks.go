package cmap

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNilCallback is returned by New when a required callback is missing.
	ErrNilCallback = errors.New("cmap: nil callback")

	// ErrInvalidBucketCount is returned when the bucket count is not positive.
	ErrInvalidBucketCount = errors.New("cmap: bucket count must be positive")
)

// HashFunc maps a key to a bucket. The map uses Hash(key) % N as the bucket
// index, so a function that already returns values in [0, N) picks the
// bucket directly. It must be deterministic for the lifetime of a key.
type HashFunc[K any] func(key K) uint64

// EqualFunc reports whether two keys are the same key. It must be an
// equivalence relation.
type EqualFunc[K any] func(a, b K) bool

// DestroyFunc releases a key or value the map no longer holds.
type DestroyFunc[T any] func(T)

// Callbacks is the behavior injected into a Map at construction.
//
// Hash, Equal, DestroyKey and DestroyValue are required. ValidKey and
// ValidValue are optional: when set, inputs they reject are ignored the
// same way nil keys and values are.
type Callbacks[K, V any] struct {
	Hash         HashFunc[K]
	Equal        EqualFunc[K]
	DestroyKey   DestroyFunc[K]
	DestroyValue DestroyFunc[V]

	ValidKey   func(K) bool
	ValidValue func(V) bool
}

func (c *Callbacks[K, V]) validate() error {
	switch {
	case c.Hash == nil:
		return fmt.Errorf("%w: Hash", ErrNilCallback)
	case c.Equal == nil:
		return fmt.Errorf("%w: Equal", ErrNilCallback)
	case c.DestroyKey == nil:
		return fmt.Errorf("%w: DestroyKey", ErrNilCallback)
	case c.DestroyValue == nil:
		return fmt.Errorf("%w: DestroyValue", ErrNilCallback)
	}
	return nil
}

// Noop returns a DestroyFunc that does nothing.
// Use it for keys or values that need no explicit release.
func Noop[T any]() DestroyFunc[T] {
	return func(T) {}
}

// nillable reports whether values of T can be nil.
func nillable[T any]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}

// isNil reports whether v is a nil pointer, interface, map, slice, channel
// or function. Only called for types where nillable is true.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
