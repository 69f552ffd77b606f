package core

import (
	"fmt"

	"github.com/strandmesh/strand/protocol"
	"github.com/strandmesh/strand/state"
)

// Emitter is the side-effect boundary for graph operations. The runtime
// implementation writes exact protocol lines to stdout and refreshes the
// broadcast cache; tests record the calls instead.
type Emitter interface {
	// Announce emits one console protocol line.
	Announce(line string)
	// RouteChanged signals that this node's own row changed and its update
	// payload should be regenerated and rebroadcast.
	RouteChanged()
}

// All functions in this file mutate a RoutingState and must be called with
// the owning runtime's state lock held.

// Change updates the cost of the local row's edge to neigh. Unknown
// neighbours are a silent no-op.
func Change(rs *state.RoutingState, e Emitter, neigh state.NodeId, cost float64) {
	row := rs.LocalRow()
	edge, ok := row[neigh]
	if !ok {
		return
	}
	edge.Cost = cost
	row[neigh] = edge
	e.RouteChanged()
}

// Fail marks a node down. Failing self additionally disables outbound
// broadcasting; the node keeps listening and executing commands.
func Fail(rs *state.RoutingState, e Emitter, id state.NodeId) {
	rs.Down[id] = struct{}{}
	if id == rs.Self {
		rs.Enabled = false
		e.Announce(fmt.Sprintf("Node %s is now DOWN.", id))
	}
}

// Recover clears a node's down mark. Recovering self re-enables
// broadcasting and restores every configured edge in both directions, so the
// two ends of each original link agree again. Recovering a node that was
// never down is a silent no-op.
func Recover(rs *state.RoutingState, e Emitter, id state.NodeId) {
	if id != rs.Self {
		delete(rs.Down, id)
		return
	}
	if !rs.IsDown(rs.Self) {
		return
	}
	rs.Enabled = true
	delete(rs.Down, rs.Self)
	for neigh, edge := range rs.Original {
		rs.LocalRow()[neigh] = edge
		if rs.Table[neigh] == nil {
			rs.Table[neigh] = state.Row{}
		}
		rs.Table[neigh][rs.Self] = edge
	}
	e.Announce(fmt.Sprintf("Node %s is now UP.", rs.Self))
	e.RouteChanged()
}

// Reset restores the state recorded at construction: only the local row
// remains, rebuilt from the configured neighbour table, the down set is
// cleared and broadcasting is re-enabled.
func Reset(rs *state.RoutingState, e Emitter) {
	clear(rs.Table)
	rs.Table[rs.Self] = rs.Original.Clone()
	clear(rs.Down)
	rs.Enabled = true
	e.Announce(fmt.Sprintf("Node %s has been reset.", rs.Self))
	e.RouteChanged()
}

// Merge folds node b's row into node a's, keeping the lower cost on
// overlapping edges, then rewrites every other row's edge to b as an edge to
// a. b's row is removed for good. A missing endpoint is a silent no-op.
func Merge(rs *state.RoutingState, e Emitter, a, b state.NodeId) {
	rowA, okA := rs.Table[a]
	rowB, okB := rs.Table[b]
	if !okA || !okB {
		return
	}

	for dest, edge := range rowB {
		if dest == a {
			continue
		}
		if old, ok := rowA[dest]; !ok || edge.Cost < old.Cost {
			rowA[dest] = edge
		}
	}
	delete(rs.Table, b)

	for _, row := range rs.Table {
		edge, ok := row[b]
		if !ok {
			continue
		}
		if old, hasA := row[a]; !hasA || edge.Cost < old.Cost {
			row[a] = edge
		}
		delete(row, b)
	}

	e.Announce("Graph merged successfully.")
	e.RouteChanged()
}

// Split partitions the currently known node set (sorted) into two contiguous
// halves and removes every edge crossing the cut, from both endpoints' rows.
// Each call produces a fresh bipartition; prior splits are not remembered.
func Split(rs *state.RoutingState, e Emitter) {
	nodes := rs.Nodes()
	mid := len(nodes) / 2
	group := make(map[state.NodeId]int, len(nodes))
	for i, id := range nodes {
		if i < mid {
			group[id] = 1
		} else {
			group[id] = 2
		}
	}

	for id, row := range rs.Table {
		for neigh := range row {
			g, known := group[neigh]
			if known && g != group[id] {
				delete(row, neigh)
			}
		}
	}

	e.Announce("Graph partitioned successfully.")
	e.RouteChanged()
}

// ApplyUpdate reconciles a received UPDATE: the payload is decoded and, if
// its canonical serialization differs from the sender's current row, the row
// is replaced wholesale. A byte-identical update is discarded, which stops
// redundant recomputation and rebroadcast storms. Malformed payloads are a
// WireError.
func ApplyUpdate(rs *state.RoutingState, e Emitter, src state.NodeId, payload string) error {
	routes, err := protocol.ParseRoutes(payload)
	if err != nil {
		return err
	}
	if old, ok := rs.Table[src]; ok {
		if protocol.EncodeUpdate(src, routes) == protocol.EncodeUpdate(src, old) {
			return nil
		}
	}
	rs.Table[src] = routes
	e.RouteChanged()
	return nil
}

// GenerateUpdate serializes a node's row as a canonical UPDATE message.
// Reports false when the node has no row.
func GenerateUpdate(rs *state.RoutingState, id state.NodeId) (string, bool) {
	row, ok := rs.Table[id]
	if !ok {
		return "", false
	}
	return protocol.EncodeUpdate(id, row), true
}

// Neighbours returns the local row minus self and down entries, or nil while
// broadcasting is disabled.
func Neighbours(rs *state.RoutingState) state.Row {
	if !rs.Enabled {
		return nil
	}
	out := rs.LocalRow().Clone()
	delete(out, rs.Self)
	for id := range rs.Down {
		delete(out, id)
	}
	return out
}

// QueryPath reports the least-cost path from start to dest, or that no path
// exists. A down endpoint always reports no path, even when its row is still
// present.
func QueryPath(rs *state.RoutingState, e Emitter, start, dest state.NodeId) {
	if rs.IsDown(start) || rs.IsDown(dest) {
		e.Announce(fmt.Sprintf("No path exists from %s to %s", start, dest))
		return
	}
	paths := ComputePaths(rs.Table, rs.Down, start)
	pc, ok := paths[dest]
	if !ok {
		e.Announce(fmt.Sprintf("No path exists from %s to %s", start, dest))
		return
	}
	e.Announce(fmt.Sprintf("Least cost path from %s to %s: %s, link cost: %s",
		start, dest, pc.Path, protocol.FormatCost(pc.Cost)))
}

// PrintTable emits the routing table header and one least-cost line per
// reachable destination in the local row, sorted, self excluded.
func PrintTable(rs *state.RoutingState, e Emitter) {
	e.Announce(fmt.Sprintf("I am Node %s", rs.Self))
	paths := ComputePaths(rs.Table, rs.Down, rs.Self)
	for _, dest := range sortedKeys(rs.LocalRow()) {
		if dest == rs.Self || rs.IsDown(dest) {
			continue
		}
		pc, ok := paths[dest]
		if !ok {
			continue
		}
		e.Announce(fmt.Sprintf("Least cost path from %s to %s: %s, link cost: %s",
			rs.Self, dest, pc.Path, protocol.FormatCost(pc.Cost)))
	}
}
