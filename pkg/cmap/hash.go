package cmap

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Names accepted by HasherByName.
const (
	HasherMurmur3  = "murmur3"
	HasherXXHash   = "xxhash"
	HasherAdditive = "additive"
)

// ErrUnknownHasher is returned by HasherByName for an unsupported name.
var ErrUnknownHasher = errors.New("cmap: unknown hasher")

// Equal returns an EqualFunc using ==.
func Equal[K comparable]() EqualFunc[K] {
	return func(a, b K) bool {
		return a == b
	}
}

// Murmur3String hashes a string key with 64-bit MurmurHash3.
func Murmur3String(key string) uint64 {
	return murmur3.Sum64([]byte(key))
}

// XXHashString hashes a string key with xxHash64.
func XXHashString(key string) uint64 {
	return xxhash.Sum64String(key)
}

// AdditiveString returns a simple multiplicative-additive string hash that
// folds every byte into [0, n). Bytes are sign-extended, so keys with
// non-ASCII bytes land where a signed-char C implementation puts them.
// It distributes poorly and is kept for small demos and collision tests.
// n must be positive.
func AdditiveString(n int) HashFunc[string] {
	mod := uint64(n)
	return func(key string) uint64 {
		var r uint64
		for i := 0; i < len(key); i++ {
			c := uint64(int8(key[i]))
			r += c
			r = (r * c) % mod
		}
		return r
	}
}

// HasherByName returns the string hasher registered under name.
// n is the bucket count, used by hashers that fold into [0, n).
func HasherByName(name string, n int) (HashFunc[string], error) {
	switch name {
	case HasherMurmur3, "":
		return Murmur3String, nil
	case HasherXXHash:
		return XXHashString, nil
	case HasherAdditive:
		if n < 1 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidBucketCount, n)
		}
		return AdditiveString(n), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
}
