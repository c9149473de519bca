package cmap

import (
	"hash/maphash"
	"math/bits"
	"unsafe"
)

// HashFunc maps a key to a probe start. seed is the per-map random seed;
// hashers that do not need it may ignore it.
type HashFunc[K any] func(key K, seed uintptr) uintptr

// EqualFunc reports whether two keys are equal.
type EqualFunc[K any] func(a, b K) bool

// Integer is the set of key types FibonacciHash accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// defaultHasher returns the hash used when no Policy.Hash is given.
//
// Integer keys hash to themselves, which is what the platform's standard
// hash does for them and lays sequential ids out without collisions.
// Other keys go through hash/maphash with a seed private to the map.
func defaultHasher[K comparable]() HashFunc[K] {
	switch any(*new(K)).(type) {
	case uint, int, uintptr:
		return func(key K, _ uintptr) uintptr {
			return *(*uintptr)(unsafe.Pointer(&key))
		}

	case uint64, int64:
		if bits.UintSize == 32 {
			return func(key K, _ uintptr) uintptr {
				v := *(*uint64)(unsafe.Pointer(&key))
				return uintptr(v) ^ uintptr(v>>32)
			}
		}
		return func(key K, _ uintptr) uintptr {
			return uintptr(*(*uint64)(unsafe.Pointer(&key)))
		}

	case uint32, int32:
		return func(key K, _ uintptr) uintptr {
			return uintptr(*(*uint32)(unsafe.Pointer(&key)))
		}

	case uint16, int16:
		return func(key K, _ uintptr) uintptr {
			return uintptr(*(*uint16)(unsafe.Pointer(&key)))
		}

	case uint8, int8:
		return func(key K, _ uintptr) uintptr {
			return uintptr(*(*uint8)(unsafe.Pointer(&key)))
		}

	default:
		seed := maphash.MakeSeed()
		return func(key K, _ uintptr) uintptr {
			return uintptr(maphash.Comparable(seed, key))
		}
	}
}

// FibonacciHash returns a multiplicative hasher for integer keys. It
// scatters ids that share a stride (entity ids allocated in blocks, for
// example) which the identity hash would otherwise pile onto the same
// probe runs.
func FibonacciHash[K Integer]() HashFunc[K] {
	return func(key K, _ uintptr) uintptr {
		h := uintptr(key) * hashPrime
		return h ^ (h >> (bits.UintSize / 2))
	}
}
