package core

import (
	"container/heap"
	"slices"

	"github.com/strandmesh/strand/state"
)

func sortedKeys(row state.Row) []state.NodeId {
	keys := make([]state.NodeId, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// PathCost is one shortest-path result: the node sequence from source to
// destination concatenated without separators ("ABCD"), and its total cost.
type PathCost struct {
	Path string
	Cost float64
}

type heapEntry struct {
	cost float64
	node state.NodeId
}

// pathHeap is a lazy decrease-key min-heap: relaxations push duplicates and
// stale entries are skipped on pop. Equal-cost entries pop in push order, so
// tie-breaking is stable for a fixed mutation sequence within a run.
type pathHeap []heapEntry

func (h pathHeap) Len() int           { return len(h) }
func (h pathHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h pathHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x any)        { *h = append(*h, x.(heapEntry)) }
func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// ComputePaths runs Dijkstra over the given table from source. Nodes in down
// are never used, neither as relaxation sources nor as targets; a down
// source yields an empty result. Unreachable destinations are absent from
// the result, never an error.
func ComputePaths(table map[state.NodeId]state.Row, down map[state.NodeId]struct{}, source state.NodeId) map[state.NodeId]PathCost {
	result := make(map[state.NodeId]PathCost)
	if _, d := down[source]; d {
		return result
	}

	dist := map[state.NodeId]float64{source: 0}
	prev := make(map[state.NodeId]state.NodeId)

	pq := &pathHeap{{cost: 0, node: source}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(heapEntry)
		if cur.cost > dist[cur.node] {
			continue // stale entry
		}
		// relax in sorted order so equal-cost ties resolve the same way on
		// every call over the same graph state
		for _, neigh := range sortedKeys(table[cur.node]) {
			if _, d := down[neigh]; d {
				continue
			}
			next := cur.cost + table[cur.node][neigh].Cost
			if old, seen := dist[neigh]; !seen || next < old {
				dist[neigh] = next
				prev[neigh] = cur.node
				heap.Push(pq, heapEntry{cost: next, node: neigh})
			}
		}
	}

	for node, cost := range dist {
		result[node] = PathCost{Path: reconstructPath(prev, source, node), Cost: cost}
	}
	return result
}

func reconstructPath(prev map[state.NodeId]state.NodeId, source, target state.NodeId) string {
	path := []state.NodeId{target}
	cur := target
	for cur != source {
		cur = prev[cur]
		path = append(path, cur)
	}
	out := make([]byte, 0, len(path))
	for i := len(path) - 1; i >= 0; i-- {
		out = append(out, path[i]...)
	}
	return string(out)
}
