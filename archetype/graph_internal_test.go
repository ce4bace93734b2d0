package archetype

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheBitDrifter/ecsforge/component"
)

// TestStoreEdgeSpillsPastHotCapacityIntoColdEdges exercises the real
// eviction path directly: once the hot map reaches hotEdgeCapacity,
// storeEdge must route further edges into coldEdges instead of growing the
// hot map further, and lookupEdge must still find them there.
func TestStoreEdgeSpillsPastHotCapacityIntoColdEdges(t *testing.T) {
	g := NewGraph(hotEdgeCapacity + 8)
	require.NotNil(t, g.coldEdges)

	hot := map[edgeKey]*Archetype{}
	a := &Archetype{ID: 1}
	for i := 0; i < hotEdgeCapacity; i++ {
		g.storeEdge(hot, edgeKey{id: component.ID(i)}, a)
	}
	require.Len(t, hot, hotEdgeCapacity)

	overflowKey := edgeKey{id: component.ID(hotEdgeCapacity)}
	b := &Archetype{ID: 2}
	g.storeEdge(hot, overflowKey, b)

	require.Len(t, hot, hotEdgeCapacity, "hot map must not grow past its capacity")
	_, inHot := hot[overflowKey]
	require.False(t, inHot, "overflowing edge must not land in the hot map")

	found, ok := g.lookupEdge(hot, overflowKey)
	require.True(t, ok, "lookupEdge must fall back to coldEdges for a spilled key")
	require.Same(t, b, found)
}
