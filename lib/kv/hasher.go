package kv

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher hashes any comparable key with the runtime map hash.
// Each hasher has its own random seed.
type Hasher[K comparable] struct {
	seed maphash.Seed
}

func (h Hasher[K]) Hash(key K) uint64 {
	return maphash.Comparable(h.seed, key)
}

func newHasher[K comparable]() Hasher[K] {
	return Hasher[K]{
		seed: maphash.MakeSeed(),
	}
}

// StringHash is a stable (unseeded) string hash, the results can be
// persisted or compared across processes.
func StringHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// BytesHash is the []byte flavor of StringHash.
func BytesHash(key []byte) uint64 {
	return xxhash.Sum64(key)
}
