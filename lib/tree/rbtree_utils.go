package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/benz9527/minimalist/lib/infra"
)

// rbtree rule validation utilities.
// They walk the public RBNode view recursively and share no code with
// the insert/remove fix-up, so they can be used to check it.

var (
	errRBTreeRootViolation  = errors.New("rbtree root violation")
	errRBTreeRedViolation   = errors.New("rbtree red violation")
	errRBTreeBlackViolation = errors.New("rbtree black violation")
	errRBTreeOrderViolation = errors.New("rbtree order violation")
	errRBTreeSizeViolation  = errors.New("rbtree size violation")
)

func isRedNode[K any, V any](node RBNode[K, V]) bool {
	return node != nil && node.Color() == Red
}

// RootViolationValidate checks p5, the root is black.
func RootViolationValidate[K any, V any](tree RBTree[K, V]) error {
	if root := tree.Root(); root != nil && root.Color() != Black {
		return errRBTreeRootViolation
	}
	return nil
}

// RedViolationValidate checks p3, no red node has a red child.
func RedViolationValidate[K any, V any](tree RBTree[K, V]) error {
	var validate func(node RBNode[K, V]) error
	validate = func(node RBNode[K, V]) error {
		if node == nil {
			return nil
		}
		if isRedNode[K, V](node) && (isRedNode[K, V](node.Left()) || isRedNode[K, V](node.Right())) {
			return errRBTreeRedViolation
		}
		if err := validate(node.Left()); err != nil {
			return err
		}
		return validate(node.Right())
	}
	return validate(tree.Root())
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Each path from a node to its NIL leaves passes the same number of black
nodes.
*/
func BlackViolationValidate[K any, V any](tree RBTree[K, V]) error {
	var blackHeight func(node RBNode[K, V]) (int, error)
	blackHeight = func(node RBNode[K, V]) (int, error) {
		if node == nil {
			return 1, nil
		}
		l, err := blackHeight(node.Left())
		if err != nil {
			return 0, err
		}
		r, err := blackHeight(node.Right())
		if err != nil {
			return 0, err
		}
		if l != r {
			return 0, errRBTreeBlackViolation
		}
		if node.Color() == Black {
			l++
		}
		return l, nil
	}
	_, err := blackHeight(tree.Root())
	return err
}

// OrderViolationValidate checks the BST property, every left subtree key
// is less and every right subtree key greater than its parent key, and
// the parent links agree with the child links.
func OrderViolationValidate[K any, V any](tree RBTree[K, V], compare infra.Comparator[K]) error {
	var (
		count    int64
		validate func(node RBNode[K, V], lo, hi *K) error
	)
	validate = func(node RBNode[K, V], lo, hi *K) error {
		if node == nil {
			return nil
		}
		count++
		key := node.Key()
		if (lo != nil && compare(*lo, key) >= 0) || (hi != nil && compare(key, *hi) >= 0) {
			return errRBTreeOrderViolation
		}
		for _, child := range []RBNode[K, V]{node.Left(), node.Right()} {
			if child != nil && child.Parent() != node {
				return errRBTreeOrderViolation
			}
		}
		if err := validate(node.Left(), lo, &key); err != nil {
			return err
		}
		return validate(node.Right(), &key, hi)
	}
	if err := validate(tree.Root(), nil, nil); err != nil {
		return err
	}
	if count != tree.Len() {
		return errRBTreeSizeViolation
	}
	return nil
}

// RBTreeValidate runs all the validations and reports every violation.
func RBTreeValidate[K any, V any](tree RBTree[K, V], compare infra.Comparator[K]) error {
	return multierr.Combine(
		RootViolationValidate[K, V](tree),
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
		OrderViolationValidate[K, V](tree, compare),
	)
}

// treeHeight counts the nodes on the longest root to leaf path.
func treeHeight[K any, V any](node RBNode[K, V]) int {
	if node == nil {
		return 0
	}
	return 1 + max(treeHeight[K, V](node.Left()), treeHeight[K, V](node.Right()))
}
