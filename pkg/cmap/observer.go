package cmap

import "time"

// Op names a map operation reported to an Observer.
type Op string

const (
	OpPut    Op = "put"
	OpRemove Op = "remove"
	OpGet    Op = "get"
)

// Observer receives per-operation events from a Map.
//
// Both methods are called while the bucket lock is held and must return
// quickly without calling back into the map.
type Observer interface {
	// ObserveOp reports a completed operation. hit is true when the key
	// was already present: replaced by Put, removed by Remove, found by Get.
	ObserveOp(op Op, bucket int, hit bool)

	// ObserveLockWait reports how long the operation waited for the lock.
	ObserveLockWait(bucket int, wait time.Duration)
}
