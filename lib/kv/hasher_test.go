package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasher(t *testing.T) {
	intKey := 100
	intHasher := newHasher[int]()
	require.Equal(t, intHasher.Hash(intKey), intHasher.Hash(intKey))

	strKey := "abc"
	strHasher := newHasher[string]()
	require.Equal(t, strHasher.Hash(strKey), strHasher.Hash(strKey))

	floatKey := 100.0
	floatHasher := newHasher[float64]()
	require.Equal(t, floatHasher.Hash(floatKey), floatHasher.Hash(floatKey))

	type pair struct {
		a int
		b string
	}
	pairHasher := newHasher[pair]()
	require.Equal(t, pairHasher.Hash(pair{1, "a"}), pairHasher.Hash(pair{1, "a"}))
}

func TestStringHash(t *testing.T) {
	// xxhash64 of the empty input with seed 0.
	require.Equal(t, uint64(0xef46db3751d8e999), StringHash(""))
	require.Equal(t, StringHash("keyb"), BytesHash([]byte("keyb")))
	require.NotEqual(t, StringHash("keya"), StringHash("keyb"))
}
