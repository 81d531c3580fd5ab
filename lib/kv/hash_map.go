package kv

import (
	"github.com/benz9527/minimalist/lib/infra"
)

type HashFunc[K any] func(key K) uint64

type EqualFunc[K any] func(i, j K) bool

/*
Separate chaining with a fixed bucket array.

	 bucket |   0    |   1    |   2    | ... |  n-1   |
	--------|--------|--------|--------|     |--------|
	 chain  | (a,1)  |  nil   | (c,3)  | ... | (e,5)  |
	        |   |    |        |   |    |     |        |
	        | (b,2)  |        | (d,4)  |     |        |

The bucket is hash(key) % n. New entries are appended to the chain
tail, there is no rehash so the chains grow with the load.
*/
type hashMapEntry[K any, V any] struct {
	key  K
	val  V
	next *hashMapEntry[K, V]
}

var _ Map[string, int] = (*hashMap[string, int])(nil)

type hashMap[K any, V any] struct {
	buckets  []*hashMapEntry[K, V]
	count    int64
	hash     HashFunc[K]
	equal    EqualFunc[K]
	isAbsent func(V) bool
}

func (m *hashMap[K, V]) bucket(key K) **hashMapEntry[K, V] {
	return &m.buckets[m.hash(key)%uint64(len(m.buckets))]
}

func (m *hashMap[K, V]) Len() int64 {
	return m.count
}

// Put stores the pair. An absent value removes the key instead and is
// never inserted.
func (m *hashMap[K, V]) Put(key K, val V) {
	isRemove := m.isAbsent(val)
	entry := m.bucket(key)
	for ; *entry != nil; entry = &(*entry).next {
		if !m.equal(key, (*entry).key) {
			continue
		}
		if isRemove {
			m.unlink(entry)
			return
		}
		(*entry).val = val
		return
	}
	if isRemove {
		return
	}
	*entry = &hashMapEntry[K, V]{
		key: key,
		val: val,
	}
	m.count++
}

func (m *hashMap[K, V]) Get(key K) (val V, exists bool) {
	for entry := *m.bucket(key); entry != nil; entry = entry.next {
		if m.equal(key, entry.key) {
			return entry.val, true
		}
	}
	return val, false
}

func (m *hashMap[K, V]) Remove(key K) (val V, exists bool) {
	for entry := m.bucket(key); *entry != nil; entry = &(*entry).next {
		if m.equal(key, (*entry).key) {
			val = (*entry).val
			m.unlink(entry)
			return val, true
		}
	}
	return val, false
}

func (m *hashMap[K, V]) unlink(entry **hashMapEntry[K, V]) {
	x := *entry
	*entry = x.next
	x.next = nil
	m.count--
}

// Foreach visits the buckets in index order and each chain from head
// to tail, the order is not related to the keys.
func (m *hashMap[K, V]) Foreach(action func(key K, val V) bool) {
	if action == nil {
		return
	}
	for _, entry := range m.buckets {
		for ; entry != nil; entry = entry.next {
			if !action(entry.key, entry.val) {
				return
			}
		}
	}
}

func (m *hashMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.count)
	m.Foreach(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (m *hashMap[K, V]) Values() []V {
	vals := make([]V, 0, m.count)
	m.Foreach(func(_ K, val V) bool {
		vals = append(vals, val)
		return true
	})
	return vals
}

func (m *hashMap[K, V]) Release() {
	for i, entry := range m.buckets {
		for entry != nil {
			next := entry.next
			entry.next = nil
			entry = next
		}
		m.buckets[i] = nil
	}
	m.count = 0
}

type HashMapOption[K any, V any] func(*hashMap[K, V])

// WithHashMapAbsentValue replaces infra.IsNilValue as the predicate that
// turns a Put into a removal.
func WithHashMapAbsentValue[K any, V any](isAbsent func(V) bool) HashMapOption[K, V] {
	return func(m *hashMap[K, V]) {
		if isAbsent != nil {
			m.isAbsent = isAbsent
		}
	}
}

func NewHashMap[K any, V any](
	buckets uint32,
	hash HashFunc[K],
	equal EqualFunc[K],
	opts ...HashMapOption[K, V],
) (Map[K, V], error) {
	if hash == nil {
		return nil, ErrHashMapNilHashFunc
	}
	if equal == nil {
		return nil, ErrHashMapNilEqualFunc
	}
	if buckets == 0 {
		return nil, ErrHashMapZeroBuckets
	}
	m := &hashMap[K, V]{
		buckets:  make([]*hashMapEntry[K, V], buckets),
		hash:     hash,
		equal:    equal,
		isAbsent: infra.IsNilValue[V],
	}
	for _, o := range opts {
		if o != nil {
			o(m)
		}
	}
	return m, nil
}

// NewComparableHashMap hashes the keys with a seeded runtime hasher and
// compares them by ==.
func NewComparableHashMap[K comparable, V any](buckets uint32, opts ...HashMapOption[K, V]) (Map[K, V], error) {
	hasher := newHasher[K]()
	return NewHashMap[K, V](buckets, hasher.Hash, func(i, j K) bool {
		return i == j
	}, opts...)
}
