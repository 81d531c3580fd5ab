package tree

import (
	"fmt"
	"math"
	randv2 "math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/minimalist/lib/infra"
)

type checkData struct {
	color RBColor
	key   uint64
}

func requireForeach(t *testing.T, tree RBTree[uint64, uint64], expected []checkData) {
	require.Equal(t, int64(len(expected)), tree.Len())
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].key, key)
		return true
	})
	require.NoError(t, RBTreeValidate[uint64, uint64](tree, infra.OrderedKeyCompare[uint64]))
}

// preorder key:color listing, it captures the shape and the colors.
func snapshot[K any, V any](tree RBTree[K, V]) []string {
	res := make([]string, 0, tree.Len())
	var walk func(node RBNode[K, V])
	walk = func(node RBNode[K, V]) {
		if node == nil {
			res = append(res, "nil")
			return
		}
		res = append(res, fmt.Sprintf("%v:%s", node.Key(), node.Color()))
		walk(node.Left())
		walk(node.Right())
	}
	walk(tree.Root())
	return res
}

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64, uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64, uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
	require.False(t, nilNode.HasKeyVal())

	tree := NewRBTree[uint64, uint64]()
	require.Nil(t, tree.Root())
	require.Nil(t, tree.Search(1))
}

func TestRbtreeLeftAndRightRotate_Pred(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()

	require.NoError(t, tree.Insert(52, 1))
	requireForeach(t, tree, []checkData{
		{Black, 52},
	})

	require.NoError(t, tree.Insert(47, 1))
	requireForeach(t, tree, []checkData{
		{Red, 47}, {Black, 52},
	})

	require.NoError(t, tree.Insert(3, 1))
	requireForeach(t, tree, []checkData{
		{Red, 3}, {Black, 47}, {Red, 52},
	})

	require.NoError(t, tree.Insert(35, 1))
	requireForeach(t, tree, []checkData{
		{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52},
	})

	require.NoError(t, tree.Insert(24, 1))
	requireForeach(t, tree, []checkData{
		{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52},
	})

	// remove

	x, err := tree.Remove(24)
	require.NoError(t, err)
	require.Equal(t, uint64(24), x.Key())
	requireForeach(t, tree, []checkData{
		{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52},
	})

	x, err = tree.Remove(47)
	require.NoError(t, err)
	require.Equal(t, uint64(47), x.Key())
	requireForeach(t, tree, []checkData{
		{Black, 3}, {Black, 35}, {Black, 52},
	})

	x, err = tree.Remove(52)
	require.NoError(t, err)
	require.Equal(t, uint64(52), x.Key())
	requireForeach(t, tree, []checkData{
		{Red, 3}, {Black, 35},
	})

	x, err = tree.Remove(3)
	require.NoError(t, err)
	require.Equal(t, uint64(3), x.Key())
	requireForeach(t, tree, []checkData{
		{Black, 35},
	})

	x, err = tree.Remove(35)
	require.NoError(t, err)
	require.Equal(t, uint64(35), x.Key())
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())

	_, err = tree.Remove(35)
	require.ErrorIs(t, err, ErrRBTreeEmpty)
}

func TestRbtree_RemoveMin(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	for _, key := range []uint64{52, 47, 3, 35, 24} {
		require.NoError(t, tree.Insert(key, 1))
	}
	requireForeach(t, tree, []checkData{
		{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52},
	})

	x, err := tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(3), x.Key())
	requireForeach(t, tree, []checkData{
		{Black, 24}, {Red, 35}, {Black, 47}, {Black, 52},
	})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(24), x.Key())
	requireForeach(t, tree, []checkData{
		{Black, 35}, {Black, 47}, {Black, 52},
	})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(35), x.Key())
	requireForeach(t, tree, []checkData{
		{Black, 47}, {Red, 52},
	})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(47), x.Key())
	requireForeach(t, tree, []checkData{
		{Black, 52},
	})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(52), x.Key())
	require.Equal(t, int64(0), tree.Len())

	_, err = tree.RemoveMin()
	require.ErrorIs(t, err, ErrRBTreeEmpty)
}

func TestRbtree_InsertIfNotPresent(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	require.NoError(t, tree.Insert(1, 10))
	require.ErrorIs(t, tree.Insert(1, 20, true), ErrRBTreeReplaceDisabled)
	require.Equal(t, uint64(10), tree.Search(1).Val())
	require.NoError(t, tree.Insert(1, 30, false))
	require.Equal(t, uint64(30), tree.Search(1).Val())
	require.NoError(t, tree.Insert(2, 40, true))
	require.Equal(t, int64(2), tree.Len())

	_, err := tree.Remove(3)
	require.ErrorIs(t, err, ErrRBTreeKeyNotFound)
}

func TestRbtree_ScenarioStringKeys(t *testing.T) {
	tree := NewRBTree[string, int]()
	for i, key := range []string{"a", "b", "c", "d"} {
		tree.Upsert(key, i+1)
	}
	require.Equal(t, []string{"a", "b", "c", "d"}, tree.Keys())
	x := tree.Search("c")
	require.NotNil(t, x)
	require.Equal(t, 3, x.Val())
	require.LessOrEqual(t, treeHeight[string, int](tree.Root()), 3)
	require.Equal(t, Black, tree.Root().Color())
	require.NoError(t, RBTreeValidate[string, int](tree, infra.OrderedKeyCompare[string]))
}

func TestRbtree_ScenarioInorder(t *testing.T) {
	tree := NewRBTree[int, struct{}]()
	for _, key := range []int{5, 3, 8, 1, 4, 7, 9} {
		tree.Upsert(key, struct{}{})
	}
	res := make([]int, 0, 7)
	tree.Foreach(func(idx int64, color RBColor, key int, val struct{}) bool {
		require.Equal(t, int64(len(res)), idx)
		res = append(res, key)
		return true
	})
	require.Equal(t, []int{1, 3, 4, 5, 7, 8, 9}, res)
}

func TestRbtree_AscendingInsertHeight(t *testing.T) {
	tree := NewRBTree[int, int]()
	for i := 1; i <= 1000; i++ {
		tree.Upsert(i, i)
	}
	require.Equal(t, int64(1000), tree.Len())
	require.LessOrEqual(t, float64(treeHeight[int, int](tree.Root())), 2*math.Log2(1001))
	require.NoError(t, RBTreeValidate[int, int](tree, infra.OrderedKeyCompare[int]))

	desc := NewRBTree[int, int]()
	for i := 1000; i >= 1; i-- {
		desc.Upsert(i, i)
	}
	require.LessOrEqual(t, float64(treeHeight[int, int](desc.Root())), 2*math.Log2(1001))
}

func TestRbtree_UpsertIdempotence(t *testing.T) {
	tree := NewRBTree[int, string]()
	for _, key := range randv2.Perm(200) {
		tree.Upsert(key, fmt.Sprint(key))
	}
	before := snapshot[int, string](tree)
	for _, key := range randv2.Perm(200) {
		tree.Upsert(key, fmt.Sprint(key))
	}
	require.Equal(t, before, snapshot[int, string](tree))
	require.Equal(t, "42", tree.Search(42).Val())

	// Overwrite only touches the payload.
	tree.Upsert(42, "forty-two")
	require.Equal(t, before, snapshot[int, string](tree))
	require.Equal(t, int64(200), tree.Len())
	require.Equal(t, "forty-two", tree.Search(42).Val())
}

func TestRbtree_UpsertAbsentRemoves(t *testing.T) {
	one, two := 1, 2
	tree := NewRBTree[string, *int]()
	tree.Upsert("keya", nil)
	tree.Upsert("keyb", &one)
	tree.Upsert("keyc", nil)
	tree.Upsert("keyd", &two)
	// An absent value on a missing key is still stored.
	require.Equal(t, int64(4), tree.Len())
	require.Equal(t, []string{"keya", "keyb", "keyc", "keyd"}, tree.Keys())

	tree.Upsert("keyb", nil)
	require.Equal(t, int64(3), tree.Len())
	require.Nil(t, tree.Search("keyb"))
	require.NoError(t, RBTreeValidate[string, *int](tree, infra.OrderedKeyCompare[string]))

	custom := NewRBTree[int, int](WithRBTreeAbsentValue[int, int](func(v int) bool {
		return v == 0
	}))
	for i := 0; i < 100; i++ {
		custom.Upsert(i, i+1)
	}
	for i := 0; i < 100; i += 2 {
		custom.Upsert(i, 0)
		require.NoError(t, RBTreeValidate[int, int](custom, infra.OrderedKeyCompare[int]))
	}
	require.Equal(t, int64(50), custom.Len())
	custom.Foreach(func(idx int64, color RBColor, key int, val int) bool {
		require.Equal(t, int(idx*2+1), key)
		return true
	})
}

func TestRbtree_ForeachStopAndNilVisitor(t *testing.T) {
	tree := NewRBTree[int, int]()
	for i := 0; i < 10; i++ {
		tree.Upsert(i, i)
	}
	visited := 0
	tree.Foreach(func(idx int64, color RBColor, key int, val int) bool {
		visited++
		return key < 4
	})
	require.Equal(t, 5, visited)

	require.NotPanics(t, func() {
		tree.Foreach(nil)
	})
	require.Equal(t, int64(10), tree.Len())
}

func TestRbtree_IdentityComparator(t *testing.T) {
	type vertex struct {
		name string
	}
	vertices := make([]*vertex, 0, 64)
	tree := NewRBTreeFunc[*vertex, int](nil)
	for i := 0; i < 64; i++ {
		v := &vertex{name: fmt.Sprint(i)}
		vertices = append(vertices, v)
		tree.Upsert(v, i)
	}
	// Same content, different identity.
	require.Nil(t, tree.Search(&vertex{name: "1"}))
	for i, v := range vertices {
		require.Equal(t, i, tree.Search(v).Val())
	}
	require.NoError(t, RBTreeValidate[*vertex, int](tree, infra.IdentityComparator[*vertex]()))

	require.Panics(t, func() {
		_ = NewRBTreeFunc[vertex, int](nil)
	})
}

func rbtreeRandomInsertAndRemoveRunCore(t *testing.T, total int, rbRmBySucc bool, violationCheck bool) {
	insertTotal := int(float64(total) * 0.8)
	removeTotal := total - insertTotal

	elements := randv2.Perm(total)
	insertElements, removeElements := elements[:insertTotal], elements[insertTotal:]

	opts := []RBTreeOpt[int, int]{}
	if rbRmBySucc {
		opts = append(opts, WithRBTreeRemoveBorrowSucc[int, int]())
	}
	tree := NewRBTree[int, int](opts...)

	for i, key := range insertElements {
		tree.Upsert(key, i)
		if violationCheck {
			require.NoError(t, RBTreeValidate[int, int](tree, infra.OrderedKeyCompare[int]))
		}
	}
	for _, key := range removeElements {
		require.NoError(t, tree.Insert(key, -1))
	}
	require.Equal(t, int64(total), tree.Len())
	require.NoError(t, RBTreeValidate[int, int](tree, infra.OrderedKeyCompare[int]))

	for _, key := range removeElements {
		x, err := tree.Remove(key)
		require.NoError(t, err)
		require.Equal(t, key, x.Key())
		require.Equal(t, -1, x.Val())
		if violationCheck {
			require.NoError(t, RBTreeValidate[int, int](tree, infra.OrderedKeyCompare[int]))
		}
	}
	require.Equal(t, int64(insertTotal), tree.Len())

	sort.Ints(insertElements)
	tree.Foreach(func(idx int64, color RBColor, key int, val int) bool {
		require.Equal(t, insertElements[idx], key)
		return true
	})
	require.Equal(t, insertElements, tree.Keys())
}

func TestRbtreeRandomInsertAndRemove(t *testing.T) {
	testcases := []struct {
		name           string
		rbRmBySucc     bool
		total          int
		violationCheck bool
	}{
		{
			name:  "rm by pred 100000",
			total: 100000,
		},
		{
			name:       "rm by succ 100000",
			rbRmBySucc: true,
			total:      100000,
		},
		{
			name:           "violation check rm by pred 2000",
			total:          2000,
			violationCheck: true,
		},
		{
			name:           "violation check rm by succ 2000",
			rbRmBySucc:     true,
			total:          2000,
			violationCheck: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeRandomInsertAndRemoveRunCore(tt, tc.total, tc.rbRmBySucc, tc.violationCheck)
		})
	}
}

func TestRbtreeInsertAndRemove_ReverseSequentialNumber(t *testing.T) {
	total := int64(10000)
	insertTotal := int64(float64(total) * 0.8)

	tree := NewRBTree[int64, uint64](WithRBTreeDesc[int64, uint64]())
	for i := int64(0); i < total; i++ {
		tree.Upsert(i, 1)
	}
	require.NoError(t, RBTreeValidate[int64, uint64](tree, infra.Comparator[int64](infra.OrderedKeyCompare[int64]).Reverse()))
	tree.Foreach(func(idx int64, color RBColor, key int64, val uint64) bool {
		require.Equal(t, total-1-idx, key)
		return true
	})

	for i := insertTotal; i < total; i++ {
		x, err := tree.Remove(i)
		require.NoError(t, err)
		require.Equal(t, i, x.Key())
	}
	tree.Foreach(func(idx int64, color RBColor, key int64, val uint64) bool {
		require.Equal(t, insertTotal-1-idx, key)
		return true
	})
	require.NoError(t, RBTreeValidate[int64, uint64](tree, infra.Comparator[int64](infra.OrderedKeyCompare[int64]).Reverse()))
}

func TestRBTree_Release(t *testing.T) {
	insertTotal := 100_000
	tree := NewRBTree[int, int]()
	for i := 0; i < insertTotal; i++ {
		tree.Upsert(i, 1)
	}
	require.LessOrEqual(t, float64(treeHeight[int, int](tree.Root())), 2*math.Log2(float64(insertTotal+1)))

	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
	require.Empty(t, tree.Keys())

	tree.Upsert(1, 1)
	require.Equal(t, []int{1}, tree.Keys())
}

func BenchmarkRBTree_Random(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewRBTree[int, []byte]()

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Upsert(rngArr[i], testByBytes)
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewRBTree[int, []byte]()

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Upsert(i, testByBytes)
	}
}
