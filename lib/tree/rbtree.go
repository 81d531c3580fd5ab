package tree

import (
	"math/bits"

	"github.com/benz9527/minimalist/lib/infra"
)

type rbNode[K any, V any] struct {
	parent *rbNode[K, V] // navigation only, never owns
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
	hasKV  bool
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) HasKeyVal() bool {
	return node != nil && node.hasKV
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

// Nil leaves are black.
func (node *rbNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K, V]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}
	if node.parent == nil {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) sibling() *rbNode[K, V] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K, V]) maximum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

type rbTree[K any, V any] struct {
	root           *rbNode[K, V]
	count          int64
	compare        infra.Comparator[K]
	isAbsent       func(V) bool
	isDesc         bool
	isRmBorrowSucc bool
	statsName      string
	stats          *rbTreeStats
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// The longest root to leaf path is at most twice the shortest one,
// so the height is bounded by 2*log2(n+1).

// replaceChild hangs y where x was under x's parent, or makes y the root.
func (tree *rbTree[K, V]) replaceChild(x, y *rbNode[K, V]) {
	p := x.parent
	switch {
	case p == nil:
		tree.root = y
	case x == p.left:
		p.left = y
	default:
		p.right = y
	}
	if y != nil {
		y.parent = p
	}
}

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x *rbNode[K, V]) {
	y := x.right
	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x without right child")
	}
	tree.replaceChild(x, y)
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.left, x.parent = x, y
	tree.stats.IncreaseRotationCount(Left)
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, V]) rightRotate(x *rbNode[K, V]) {
	y := x.left
	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x without left child")
	}
	tree.replaceChild(x, y)
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.right, x.parent = x, y
	tree.stats.IncreaseRotationCount(Right)
}

func (tree *rbTree[K, V]) search(key K) *rbNode[K, V] {
	for aux := tree.root; aux != nil; {
		res := tree.compare(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *rbTree[K, V]) Search(key K) RBNode[K, V] {
	if x := tree.search(key); x != nil {
		return x
	}
	return nil
}

// i1: Empty rbtree, the new node becomes the black root.
func (tree *rbTree[K, V]) Insert(key K, val V, ifNotPresent ...bool) error {
	if /* i1 */ tree.root == nil {
		tree.root = &rbNode[K, V]{
			key:   key,
			val:   val,
			color: Black,
			hasKV: true,
		}
		tree.count++
		tree.stats.RecordNodeCount(1)
		return nil
	}

	var (
		y   *rbNode[K, V]
		res int
	)
	for x := tree.root; x != nil; {
		y = x
		if res = tree.compare(key, x.key); /* equal */ res == 0 {
			if /* disabled */ len(ifNotPresent) > 0 && ifNotPresent[0] {
				return ErrRBTreeReplaceDisabled
			}
			x.val = val
			return nil
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: y,
		hasKV:  true,
	}
	if res < 0 {
		y.left = z
	} else {
		y.right = z
	}
	tree.count++
	tree.stats.RecordNodeCount(1)
	tree.insertRebalance(z)
	return nil
}

func (tree *rbTree[K, V]) Upsert(key K, val V) {
	if tree.isAbsent(val) {
		if z := tree.search(key); z != nil {
			tree.removeNode(z)
			return
		}
	}
	_ = tree.Insert(key, val)
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: X is the root, repaint it into black.

im2: X's parent P is black, nothing is violated.

im3: Both the parent P and the uncle U are red, so grandpa G is black.
Repaint P and U into black and G into red. G may now be red-violation
with its own parent, so continue from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black (or NIL), and X is
the opposite direction to P. Rotate P to straighten the line, then
the old parent P is the node to fix in im5.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: X is the same direction as P. Rotate G to the opposite direction
and swap the colors of P and G. No further propagation.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	for {
		if /* im1 */ x.isRoot() {
			x.color = Black
			return
		}

		p := x.parent
		if /* im2 */ p.isBlack() {
			return
		}

		// A red parent is never the root, the grandpa exists.
		g := p.parent
		tree.stats.IncreaseRebalanceCount(rebalanceInsert)
		if u := p.sibling(); /* im3 */ u.isRed() {
			p.color, u.color, g.color = Black, Black, Red
			x = g
			continue
		}

		if dir := x.Direction(); /* im4 */ dir != p.Direction() {
			if dir == Right {
				tree.leftRotate(p)
			} else {
				tree.rightRotate(p)
			}
			x, p = p, x
		}

		switch /* im5 */ p.Direction() {
		case Left:
			tree.rightRotate(g)
		case Right:
			tree.leftRotate(g)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate (im5)")
		}
		p.color, g.color = Black, Red
		return
	}
}

/*
r1: Node X has two children. Borrow the key and value of its pred
(or succ), then remove that node instead. The borrowed node has at
most one child.

r2: The node Y to unlink has one child C. Y must be black and C red
(otherwise black-violation), so C replaces Y and is repainted black.

r3: Y is a leaf. A red leaf is unlinked directly. A black leaf would
leave a black-violation, so the tree is rebalanced while Y still
stands in its place, then Y is unlinked.
*/
func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) *rbNode[K, V] {
	res := &rbNode[K, V]{
		key:   z.key,
		val:   z.val,
		color: z.color,
		hasKV: true,
	}

	y := z
	if /* r1 */ z.left != nil && z.right != nil {
		if tree.isRmBorrowSucc {
			y = z.right.minimum()
		} else {
			y = z.left.maximum()
		}
		z.key, z.val = y.key, y.val
	}

	if child := y.left; /* r2 */ child != nil || y.right != nil {
		if child == nil {
			child = y.right
		}
		tree.replaceChild(y, child)
		child.color = Black
	} else /* r3 */ {
		if y.isBlack() && !y.isRoot() {
			tree.removeRebalance(y)
		}
		tree.replaceChild(y, nil)
	}

	var (
		zeroK K
		zeroV V
	)
	y.parent, y.left, y.right = nil, nil, nil
	y.key, y.val, y.hasKV = zeroK, zeroV, false
	tree.count--
	tree.stats.RecordNodeCount(-1)
	return res
}

func (tree *rbTree[K, V]) Remove(key K) (RBNode[K, V], error) {
	if tree.count <= 0 {
		return nil, ErrRBTreeEmpty
	}
	z := tree.search(key)
	if z == nil {
		return nil, ErrRBTreeKeyNotFound
	}
	return tree.removeNode(z), nil
}

func (tree *rbTree[K, V]) RemoveMin() (RBNode[K, V], error) {
	if tree.count <= 0 {
		return nil, ErrRBTreeEmpty
	}
	return tree.removeNode(tree.root.minimum()), nil
}

/*
X carries an extra black. S is X's sibling, Sc the sibling child on
X's side and Sd the sibling child on the far side.

rm1: S is red, so P, Sc and Sd are black. Rotate P towards X and
swap P and S colors. X gets a black sibling, go on with rm2-rm4.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black. Repaint S into red, the extra black
moves up to P. A red P absorbs it (painted black), a black P repeats.

rm3: S is black, Sc is red and Sd is black. Rotate S away from X and
swap S and Sc colors, then Sd is red for rm4.

rm4: S is black and Sd is red. Rotate P towards X, S takes P's color,
P and Sd become black. Done.

	  {P}                   {S}
	  / \    l-rotate(P)    / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	 {Sc} <Sd>          [X] {Sc}
*/
func (tree *rbTree[K, V]) removeRebalance(x *rbNode[K, V]) {
	for !x.isRoot() && x.isBlack() {
		p, dir := x.parent, x.Direction()
		tree.stats.IncreaseRebalanceCount(rebalanceRemove)

		s := x.sibling()
		if /* rm1 */ s.isRed() {
			if dir == Left {
				tree.leftRotate(p)
			} else {
				tree.rightRotate(p)
			}
			s.color, p.color = Black, Red
			s = x.sibling()
		}

		sc, sd := s.left, s.right
		if dir == Right {
			sc, sd = s.right, s.left
		}

		if /* rm2 */ sc.isBlack() && sd.isBlack() {
			s.color = Red
			x = p
			continue
		}

		if /* rm3 */ sd.isBlack() {
			if dir == Left {
				tree.rightRotate(s)
			} else {
				tree.leftRotate(s)
			}
			sc.color, s.color = Black, Red
			s, sd = sc, s
		}

		/* rm4 */
		if dir == Left {
			tree.leftRotate(p)
		} else {
			tree.rightRotate(p)
		}
		s.color, p.color, sd.color = p.color, Black, Black
		x = tree.root
	}
	x.color = Black
}

// Inorder traversal with an explicit stack, bounded by the tree height.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	if action == nil || tree.root == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, heightHint(tree.count))
	defer func() {
		clear(stack)
	}()

	idx := int64(0)
	for aux := tree.root; aux != nil || len(stack) > 0; {
		for ; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
		aux = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		aux = aux.right
	}
}

func (tree *rbTree[K, V]) Keys() []K {
	keys := make([]K, 0, tree.count)
	tree.Foreach(func(_ int64, _ RBColor, key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Release unlinks every node. The keys and values themselves belong to
// the caller and are only dereferenced.
func (tree *rbTree[K, V]) Release() {
	aux, released := tree.root, tree.count
	tree.root, tree.count = nil, 0
	if aux == nil {
		return
	}

	var (
		zeroK K
		zeroV V
	)
	stack := make([]*rbNode[K, V], 0, heightHint(released))
	defer func() {
		clear(stack)
	}()
	for stack = append(stack, aux); len(stack) > 0; {
		aux = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.parent, aux.left, aux.right = nil, nil, nil
		aux.key, aux.val, aux.hasKV = zeroK, zeroV, false
	}
	tree.stats.RecordNodeCount(-released)
}

// heightHint is the upper bound 2*log2(n+1) of a red-black tree height.
func heightHint(count int64) int {
	if count <= 0 {
		return 0
	}
	return bits.Len64(uint64(count)+1) << 1
}

type RBTreeOpt[K any, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

func WithRBTreeRemoveBorrowSucc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isRmBorrowSucc = true
	}
}

// WithRBTreeAbsentValue replaces infra.IsNilValue as the predicate that
// turns an Upsert of an existing key into a removal.
func WithRBTreeAbsentValue[K any, V any](isAbsent func(V) bool) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if isAbsent != nil {
			tree.isAbsent = isAbsent
		}
	}
}

func WithRBTreeStats[K any, V any](name string) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.statsName = name
	}
}

func newRBTree[K any, V any](compare infra.Comparator[K], opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	if compare == nil {
		compare = infra.IdentityComparator[K]()
	}
	tree := &rbTree[K, V]{
		compare:  compare,
		isAbsent: infra.IsNilValue[V],
	}
	for _, o := range opts {
		o(tree)
	}
	if tree.isDesc {
		tree.compare = tree.compare.Reverse()
	}
	if tree.statsName != "" {
		tree.stats = newRBTreeStats(tree.statsName)
	}
	return tree
}

// NewRBTree orders the keys by their natural order.
func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](infra.OrderedKeyCompare[K], opts...)
}

// NewRBTreeFunc orders the keys by compare. A nil compare falls back to
// infra.IdentityComparator.
func NewRBTreeFunc[K any, V any](compare infra.Comparator[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](compare, opts...)
}
