package tree

import (
	"iter"

	"github.com/benz9527/minimalist/lib/infra"
)

var _ OrderedSet[int] = (*orderedSet[int])(nil)

// The set is a tree without payload, re-adding an item is a no-op.
type orderedSet[K any] struct {
	tree *rbTree[K, struct{}]
}

func (s *orderedSet[K]) Len() int64 {
	return s.tree.Len()
}

func (s *orderedSet[K]) Add(items ...K) {
	for _, item := range items {
		_ = s.tree.Insert(item, struct{}{})
	}
}

func (s *orderedSet[K]) Contains(item K) bool {
	return s.tree.search(item) != nil
}

func (s *orderedSet[K]) Remove(items ...K) {
	for _, item := range items {
		if x := s.tree.search(item); x != nil {
			s.tree.removeNode(x)
		}
	}
}

func (s *orderedSet[K]) Foreach(action func(idx int64, item K) bool) {
	if action == nil {
		return
	}
	s.tree.Foreach(func(idx int64, _ RBColor, key K, _ struct{}) bool {
		return action(idx, key)
	})
}

func (s *orderedSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		s.Foreach(func(_ int64, item K) bool {
			return yield(item)
		})
	}
}

func (s *orderedSet[K]) Values() []K {
	return s.tree.Keys()
}

func (s *orderedSet[K]) Release() {
	s.tree.Release()
}

func NewOrderedSet[K infra.OrderedKey](opts ...RBTreeOpt[K, struct{}]) OrderedSet[K] {
	return &orderedSet[K]{
		tree: newRBTree[K, struct{}](infra.OrderedKeyCompare[K], opts...),
	}
}

// NewOrderedSetFunc orders the items by compare, nil means identity order.
func NewOrderedSetFunc[K any](compare infra.Comparator[K], opts ...RBTreeOpt[K, struct{}]) OrderedSet[K] {
	return &orderedSet[K]{
		tree: newRBTree[K, struct{}](compare, opts...),
	}
}
