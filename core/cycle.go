package core

import "github.com/strandmesh/strand/state"

// CycleDetect treats the graph as directed and searches for a cycle
// reachable from any not-down node. The traversal is iterative with an
// explicit queue carrying the path taken, so adversarial inputs cannot blow
// the call stack. Down nodes are skipped as start points and never used as
// traversal edges.
func CycleDetect(rs *state.RoutingState, e Emitter) bool {
	for _, start := range rs.Nodes() {
		if rs.IsDown(start) {
			continue
		}
		if searchCycleFrom(rs, start) {
			e.Announce("Cycle detected.")
			return true
		}
	}
	e.Announce("No cycle found.")
	return false
}

type walkStep struct {
	node state.NodeId
	path []state.NodeId
}

func searchCycleFrom(rs *state.RoutingState, start state.NodeId) bool {
	visited := map[state.NodeId]struct{}{}
	queue := []walkStep{{node: start, path: []state.NodeId{start}}}

	for len(queue) > 0 {
		step := queue[0]
		queue = queue[1:]
		row, ok := rs.Table[step.node]
		if !ok {
			continue
		}
		for _, next := range sortedKeys(row) {
			if rs.IsDown(next) {
				continue
			}
			if onPath(step.path, next) {
				return true
			}
			if _, seen := visited[next]; !seen {
				visited[next] = struct{}{}
				path := make([]state.NodeId, len(step.path), len(step.path)+1)
				copy(path, step.path)
				queue = append(queue, walkStep{node: next, path: append(path, next)})
			}
		}
	}
	return false
}

func onPath(path []state.NodeId, id state.NodeId) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}
