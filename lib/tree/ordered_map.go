package tree

import (
	"iter"

	"github.com/benz9527/minimalist/lib/infra"
)

var _ OrderedMap[int, int] = (*orderedMap[int, int])(nil)

type orderedMap[K any, V any] struct {
	tree *rbTree[K, V]
}

func (m *orderedMap[K, V]) Len() int64 {
	return m.tree.Len()
}

func (m *orderedMap[K, V]) Put(key K, val V) {
	m.tree.Upsert(key, val)
}

func (m *orderedMap[K, V]) Get(key K) (val V, exists bool) {
	if x := m.tree.search(key); x != nil {
		return x.val, true
	}
	return val, false
}

func (m *orderedMap[K, V]) Remove(key K) (val V, exists bool) {
	x, err := m.tree.Remove(key)
	if err != nil {
		return val, false
	}
	return x.Val(), true
}

func (m *orderedMap[K, V]) Foreach(action func(key K, val V) bool) {
	if action == nil {
		return
	}
	m.tree.Foreach(func(_ int64, _ RBColor, key K, val V) bool {
		return action(key, val)
	})
}

func (m *orderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.Foreach(yield)
	}
}

func (m *orderedMap[K, V]) Keys() []K {
	return m.tree.Keys()
}

func (m *orderedMap[K, V]) Values() []V {
	vals := make([]V, 0, m.tree.Len())
	m.tree.Foreach(func(_ int64, _ RBColor, _ K, val V) bool {
		vals = append(vals, val)
		return true
	})
	return vals
}

func (m *orderedMap[K, V]) Release() {
	m.tree.Release()
}

func NewOrderedMap[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) OrderedMap[K, V] {
	return &orderedMap[K, V]{
		tree: newRBTree[K, V](infra.OrderedKeyCompare[K], opts...),
	}
}

// NewOrderedMapFunc orders the keys by compare, nil means identity order.
func NewOrderedMapFunc[K any, V any](compare infra.Comparator[K], opts ...RBTreeOpt[K, V]) OrderedMap[K, V] {
	return &orderedMap[K, V]{
		tree: newRBTree[K, V](compare, opts...),
	}
}
