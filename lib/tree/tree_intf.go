package tree

import (
	"errors"
	"iter"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "left"
	case Root:
		return "root"
	case Right:
		return "right"
	default:
	}
	return "unknown"
}

var (
	ErrRBTreeEmpty           = errors.New("[rbtree] empty element to remove")
	ErrRBTreeKeyNotFound     = errors.New("[rbtree] key not found")
	ErrRBTreeReplaceDisabled = errors.New("[rbtree] replace disabled")
)

type RBNode[K any, V any] interface {
	Key() K
	Val() V
	HasKeyVal() bool
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBTree is the balanced tree engine shared by OrderedMap and OrderedSet.
// It is not safe for concurrent use.
type RBTree[K any, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	// Insert adds or overwrites the key. With ifNotPresent set an existing
	// key is left untouched and ErrRBTreeReplaceDisabled is returned.
	Insert(key K, val V, ifNotPresent ...bool) error
	// Upsert is Insert with the removal policy: an existing key set to an
	// absent value is removed from the tree.
	Upsert(key K, val V)
	Search(key K) RBNode[K, V]
	Remove(key K) (RBNode[K, V], error)
	RemoveMin() (RBNode[K, V], error)
	// Foreach walks in order. Returning false stops the walk.
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Keys() []K
	Release()
}

// OrderedMap keeps key/value pairs in ascending key order.
type OrderedMap[K any, V any] interface {
	Len() int64
	// Put sets the value of key. If key exists and val is absent (nil by
	// default), the mapping is removed instead.
	Put(key K, val V)
	Get(key K) (V, bool)
	Remove(key K) (V, bool)
	Foreach(action func(key K, val V) bool)
	All() iter.Seq2[K, V]
	Keys() []K
	Values() []V
	Release()
}

// OrderedSet keeps distinct items in ascending order.
type OrderedSet[K any] interface {
	Len() int64
	Add(items ...K)
	Contains(item K) bool
	Remove(items ...K)
	Foreach(action func(idx int64, item K) bool)
	All() iter.Seq[K]
	Values() []K
	Release()
}
