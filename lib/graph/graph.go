package graph

import (
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/minimalist/lib/infra"
	"github.com/benz9527/minimalist/lib/tree"
	"github.com/benz9527/minimalist/lib/xlog"
)

// Graph keeps one adjacency list per node in an ordered map keyed by the
// node comparator. Nodes are only referenced, never copied deeply.
type Graph[N any] interface {
	Directed() bool
	Len() int64
	// AddEdge connects a to b, and b to a if the graph is undirected.
	AddEdge(a, b N)
	// Neighbors returns a copy of the node's neighbors in insertion order.
	Neighbors(node N) ([]N, bool)
	Nodes() []N
	IsCyclic() bool
	// Paths returns every simple path from start to end.
	Paths(start, end N) [][]N
	Release()
}

type adjacencyList[N any] struct {
	neighbors []N
}

// dfsFrame is an explicit call frame, idx is the next neighbor to visit.
type dfsFrame[N any] struct {
	node      N
	parent    N
	hasParent bool
	idx       int
}

var _ Graph[int] = (*graph[int])(nil)

type graph[N any] struct {
	directed       bool
	compare        infra.Comparator[N]
	adjacencyLists tree.OrderedMap[N, *adjacencyList[N]]
	logger         xlog.XLogger
}

func (g *graph[N]) Directed() bool {
	return g.directed
}

func (g *graph[N]) Len() int64 {
	return g.adjacencyLists.Len()
}

func (g *graph[N]) list(node N) *adjacencyList[N] {
	list, ok := g.adjacencyLists.Get(node)
	if !ok {
		list = &adjacencyList[N]{}
		g.adjacencyLists.Put(node, list)
	}
	return list
}

func (g *graph[N]) AddEdge(a, b N) {
	src := g.list(a)
	src.neighbors = append(src.neighbors, b)
	dst := g.list(b)
	if !g.directed {
		dst.neighbors = append(dst.neighbors, a)
	}
}

func (g *graph[N]) Neighbors(node N) ([]N, bool) {
	list, ok := g.adjacencyLists.Get(node)
	if !ok {
		return nil, false
	}
	return slices.Clone(list.neighbors), true
}

func (g *graph[N]) Nodes() []N {
	return g.adjacencyLists.Keys()
}

func (g *graph[N]) neighbors(node N) []N {
	if list, ok := g.adjacencyLists.Get(node); ok {
		return list.neighbors
	}
	return nil
}

func (g *graph[N]) IsCyclic() bool {
	if g.directed {
		return g.isDirectedCyclic()
	}
	return g.isUndirectedCyclic()
}

// Every edge of an undirected graph is stored twice, so a child skips
// its way back to the parent. A second edge between the same pair is
// still seen from the parent side and counts as a cycle, so does a self
// loop.
func (g *graph[N]) isUndirectedCyclic() bool {
	visited := tree.NewOrderedSetFunc[N](g.compare)
	defer visited.Release()

	stack := make([]dfsFrame[N], 0, 16)
	for _, root := range g.Nodes() {
		if visited.Contains(root) {
			continue
		}
		visited.Add(root)
		stack = append(stack[:0], dfsFrame[N]{node: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			neighbors := g.neighbors(top.node)
			if top.idx >= len(neighbors) {
				stack = stack[:len(stack)-1]
				continue
			}
			next := neighbors[top.idx]
			top.idx++
			if top.hasParent && g.compare(next, top.parent) == 0 {
				continue
			}
			if visited.Contains(next) {
				g.logger.Debug("[graph] undirected cycle detected",
					zap.Any("node", top.node),
					zap.Any("neighbor", next),
				)
				return true
			}
			visited.Add(next)
			stack = append(stack, dfsFrame[N]{node: next, parent: top.node, hasParent: true})
		}
	}
	return false
}

// A directed cycle is an edge back to a node that is still on the DFS
// stack. Edges to finished nodes (cross or forward edges) are fine.
func (g *graph[N]) isDirectedCyclic() bool {
	visited := tree.NewOrderedSetFunc[N](g.compare)
	onStack := tree.NewOrderedSetFunc[N](g.compare)
	defer func() {
		visited.Release()
		onStack.Release()
	}()

	stack := make([]dfsFrame[N], 0, 16)
	for _, root := range g.Nodes() {
		if visited.Contains(root) {
			continue
		}
		visited.Add(root)
		onStack.Add(root)
		stack = append(stack[:0], dfsFrame[N]{node: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			neighbors := g.neighbors(top.node)
			if top.idx >= len(neighbors) {
				onStack.Remove(top.node)
				stack = stack[:len(stack)-1]
				continue
			}
			next := neighbors[top.idx]
			top.idx++
			if onStack.Contains(next) {
				g.logger.Debug("[graph] directed cycle detected",
					zap.Any("node", top.node),
					zap.Any("neighbor", next),
				)
				return true
			}
			if visited.Contains(next) {
				continue
			}
			visited.Add(next)
			onStack.Add(next)
			stack = append(stack, dfsFrame[N]{node: next})
		}
	}
	return false
}

// Paths walks the neighbors in insertion order, so the paths come out in
// that order too. Parallel edges yield the same node sequence once per
// edge. The search is exponential in the worst case.
func (g *graph[N]) Paths(start, end N) [][]N {
	if _, ok := g.adjacencyLists.Get(start); !ok {
		return nil
	}
	if _, ok := g.adjacencyLists.Get(end); !ok {
		return nil
	}

	onPath := tree.NewOrderedSetFunc[N](g.compare)
	defer onPath.Release()

	paths := make([][]N, 0, 4)
	onPath.Add(start)
	stack := []dfsFrame[N]{{node: start}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		neighbors := g.neighbors(top.node)
		if g.compare(top.node, end) == 0 {
			paths = append(paths, lo.Map(stack, func(frame dfsFrame[N], _ int) N {
				return frame.node
			}))
			onPath.Remove(top.node)
			stack = stack[:len(stack)-1]
			continue
		}
		if top.idx >= len(neighbors) {
			onPath.Remove(top.node)
			stack = stack[:len(stack)-1]
			continue
		}
		next := neighbors[top.idx]
		top.idx++
		if onPath.Contains(next) {
			continue
		}
		onPath.Add(next)
		stack = append(stack, dfsFrame[N]{node: next})
	}
	g.logger.Debug("[graph] paths searched",
		zap.Any("start", start),
		zap.Any("end", end),
		zap.Int("count", len(paths)),
	)
	return paths
}

func (g *graph[N]) Release() {
	g.adjacencyLists.Foreach(func(_ N, list *adjacencyList[N]) bool {
		clear(list.neighbors)
		list.neighbors = nil
		return true
	})
	g.adjacencyLists.Release()
}

type GraphOption[N any] func(*graph[N])

// WithGraphNodeComparator orders and identifies the nodes. Without it the
// identity order of infra.IdentityComparator is used.
func WithGraphNodeComparator[N any](compare infra.Comparator[N]) GraphOption[N] {
	return func(g *graph[N]) {
		if compare != nil {
			g.compare = compare
		}
	}
}

func WithGraphLogger[N any](logger xlog.XLogger) GraphOption[N] {
	return func(g *graph[N]) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func NewGraph[N any](directed bool, opts ...GraphOption[N]) Graph[N] {
	g := &graph[N]{
		directed: directed,
		logger:   xlog.NewNopXLogger(),
	}
	for _, o := range opts {
		if o != nil {
			o(g)
		}
	}
	if g.compare == nil {
		g.compare = infra.IdentityComparator[N]()
	}
	g.adjacencyLists = tree.NewOrderedMapFunc[N, *adjacencyList[N]](g.compare)
	return g
}
