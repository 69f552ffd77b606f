package state

import (
	"regexp"
	"slices"
)

// NodeId identifies a node in the network. Valid ids are single uppercase
// letters, which caps the network at 26 nodes.
type NodeId string

var nodeIdRegex = regexp.MustCompile(`^[A-Z]$`)

func ValidNodeId(s string) bool {
	return nodeIdRegex.MatchString(s)
}

// Edge is one self-reported link. Port is the UDP port the far end listens
// on; it is a delivery address rather than a topology concern, but it is
// carried alongside the cost everywhere.
type Edge struct {
	Cost float64
	Port uint16
}

// Row maps destination id -> edge, as reported by a single node.
type Row map[NodeId]Edge

func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// RoutingState is this node's view of the whole network.
// Access must be done while holding the owning runtime's state lock.
type RoutingState struct {
	Self NodeId
	// Table is the union of every node's self-reported row. The local row is
	// authoritative and mutated locally; remote rows are exactly what was
	// last received in an UPDATE and are replaced wholesale, never merged.
	Table map[NodeId]Row
	// Down marks nodes excluded from all path computations, whether or not
	// they still have rows in Table.
	Down map[NodeId]struct{}
	// Original is the configured neighbour table, restored on RESET and on
	// RECOVER of self.
	Original Row
	// Enabled gates outbound broadcasting. FAIL of self clears it.
	Enabled bool
}

func NewRoutingState(self NodeId, neighbours Row) *RoutingState {
	return &RoutingState{
		Self:     self,
		Table:    map[NodeId]Row{self: neighbours.Clone()},
		Down:     make(map[NodeId]struct{}),
		Original: neighbours.Clone(),
		Enabled:  true,
	}
}

func (rs *RoutingState) IsDown(id NodeId) bool {
	_, down := rs.Down[id]
	return down
}

// LocalRow returns this node's own row. It is never nil.
func (rs *RoutingState) LocalRow() Row {
	return rs.Table[rs.Self]
}

// Nodes returns every node with a row, sorted lexicographically.
func (rs *RoutingState) Nodes() []NodeId {
	nodes := make([]NodeId, 0, len(rs.Table))
	for id := range rs.Table {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)
	return nodes
}
