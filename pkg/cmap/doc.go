// Package cmap provides a fixed-capacity concurrent hash map.
//
// The map owns a fixed number of buckets chosen at construction. Each
// bucket is a singly-linked chain of entries guarded by its own mutex:
//
//   - Fixed capacity: the bucket count never changes after New
//   - Per-bucket locking: operations on different buckets never contend
//   - Injected behavior: hashing, equality and key/value release are
//     supplied by the caller through Callbacks
//   - Ownership: Put hands key and value to the map, which releases them
//     on overwrite, Remove and Destroy
//
// Usage:
//
//	m, err := cmap.New(cmap.Callbacks[string, string]{
//		Hash:         cmap.Murmur3String,
//		Equal:        cmap.Equal[string](),
//		DestroyKey:   cmap.Noop[string](),
//		DestroyValue: cmap.Noop[string](),
//	}, cmap.WithBucketCount(64))
//	if err != nil {
//		return err
//	}
//	defer m.Destroy()
//
//	m.Put("Donna", "Secretary")
//	val, ok := m.Get("Donna")
//
// Thread Safety:
//
// Put, Remove, Get and GetFunc lock exactly one bucket. Dump, Range, Len
// and Stats lock each bucket in turn and only give a per-bucket consistent
// view. Destroy must not run concurrently with any other call.
//
// Get releases the bucket lock before it returns. When V is a reference
// type, a concurrent Put or Remove of the same key may pass the returned
// value to DestroyValue while the caller still uses it. GetFunc reads the
// value under the bucket lock instead.
package cmap
