package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strandmesh/strand/state"
)

func edge(cost float64) state.Edge {
	return state.Edge{Cost: cost, Port: 2000}
}

func TestComputePaths_SourceCostZero(t *testing.T) {
	table := map[state.NodeId]state.Row{
		"A": {"B": edge(4)},
	}
	paths := ComputePaths(table, nil, "A")
	assert.Equal(t, PathCost{Path: "A", Cost: 0}, paths["A"])
}

func TestComputePaths_MultiHop(t *testing.T) {
	// A -1- B -1- C -1- D, plus a direct A-D edge of cost 10
	table := map[state.NodeId]state.Row{
		"A": {"B": edge(1), "D": edge(10)},
		"B": {"C": edge(1)},
		"C": {"D": edge(1)},
	}
	paths := ComputePaths(table, nil, "A")
	assert.Equal(t, PathCost{Path: "ABCD", Cost: 3}, paths["D"])
	assert.Equal(t, PathCost{Path: "ABC", Cost: 2}, paths["C"])
}

func TestComputePaths_DownSourceIsEmpty(t *testing.T) {
	table := map[state.NodeId]state.Row{
		"A": {"B": edge(1)},
	}
	down := map[state.NodeId]struct{}{"A": {}}
	assert.Empty(t, ComputePaths(table, down, "A"))
}

func TestComputePaths_DownNodeExcludedAsIntermediate(t *testing.T) {
	// Only route from A to C runs through B; with B down, C is unreachable.
	table := map[state.NodeId]state.Row{
		"A": {"B": edge(1)},
		"B": {"C": edge(1)},
	}
	down := map[state.NodeId]struct{}{"B": {}}
	paths := ComputePaths(table, down, "A")
	assert.NotContains(t, paths, state.NodeId("C"))
	assert.NotContains(t, paths, state.NodeId("B"))
	assert.Contains(t, paths, state.NodeId("A"))
}

func TestComputePaths_UnreachableAbsent(t *testing.T) {
	table := map[state.NodeId]state.Row{
		"A": {"B": edge(1)},
		"C": {"D": edge(1)},
	}
	paths := ComputePaths(table, nil, "A")
	assert.NotContains(t, paths, state.NodeId("C"))
	assert.NotContains(t, paths, state.NodeId("D"))
}

func TestComputePaths_RemovingNodeNeverShortens(t *testing.T) {
	table := map[state.NodeId]state.Row{
		"A": {"B": edge(1), "C": edge(5)},
		"B": {"C": edge(1)},
		"C": {"D": edge(1)},
	}
	base := ComputePaths(table, nil, "A")
	down := map[state.NodeId]struct{}{"B": {}}
	degraded := ComputePaths(table, down, "A")
	for dest, pc := range degraded {
		if old, ok := base[dest]; ok {
			assert.GreaterOrEqual(t, pc.Cost, old.Cost, "dest %s", dest)
		}
	}
}

func TestComputePaths_StableForSameState(t *testing.T) {
	// two equal-cost routes A->B->D and A->C->D; the pick must not flip
	// between calls over the same state
	table := map[state.NodeId]state.Row{
		"A": {"B": edge(1), "C": edge(1)},
		"B": {"D": edge(1)},
		"C": {"D": edge(1)},
	}
	first := ComputePaths(table, nil, "A")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ComputePaths(table, nil, "A"))
	}
}
