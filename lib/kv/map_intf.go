package kv

import (
	"errors"
)

var (
	ErrHashMapNilHashFunc  = errors.New("[hashmap] nil hash function")
	ErrHashMapNilEqualFunc = errors.New("[hashmap] nil equal function")
	ErrHashMapZeroBuckets  = errors.New("[hashmap] zero buckets")
)

// Map is the store contract shared by the hash map and the ordered map,
// so both can sit behind the thread safe wrapper.
type Map[K any, V any] interface {
	Len() int64
	Put(key K, val V)
	Get(key K) (val V, exists bool)
	Remove(key K) (val V, exists bool)
	Foreach(action func(key K, val V) bool)
	Keys() []K
	Values() []V
	Release()
}

type SafeStoreKeyFilterFunc[K any] func(key K) bool

func defaultAllKeysFilter[K any](key K) bool {
	return true
}

type ThreadSafeStorer[K any, V any] interface {
	Len() int64
	Purge() error
	AddOrUpdate(key K, obj V)
	Replace(store Map[K, V]) Map[K, V]
	Delete(key K) (item V, exists bool)
	Get(key K) (item V, exists bool)
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	ListValues(keys ...K) (items []V)
}
