package archetype_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/TheBitDrifter/ecsforge/archetype"
	"github.com/TheBitDrifter/ecsforge/component"
)

type pos struct{ X, Y float64 }
type vel struct{ X, Y float64 }

func values(vs ...any) map[component.ID]unsafe.Pointer {
	m := map[component.ID]unsafe.Pointer{}
	for i := 0; i+1 < len(vs); i += 2 {
		id := vs[i].(component.ID)
		m[id] = vs[i+1].(unsafe.Pointer)
	}
	return m
}

func TestEmplaceAndGetRoundTrip(t *testing.T) {
	posMeta := component.Register[pos]()
	velMeta := component.Register[vel]()
	a := archetype.NewGraph(0).Ensure([]*component.Meta{posMeta, velMeta})

	p := pos{X: 1, Y: 2}
	v := vel{X: 3, Y: 4}
	ent := component.Entity{ID: 1}
	loc := a.EmplaceBack(ent, values(posMeta.ID, unsafe.Pointer(&p), velMeta.ID, unsafe.Pointer(&v)))

	ptr, ok := a.Get(loc, posMeta.ID)
	require.True(t, ok)
	require.Equal(t, p, *(*pos)(ptr))

	ptr, ok = a.Get(loc, velMeta.ID)
	require.True(t, ok)
	require.Equal(t, v, *(*vel)(ptr))
}

func TestChunksRollOverAtCapacity(t *testing.T) {
	posMeta := component.Register[pos]()
	a := archetype.NewGraph(0).Ensure([]*component.Meta{posMeta})
	capacity := a.Chunks()[0].Capacity()

	for i := 0; i < capacity+1; i++ {
		p := pos{X: float64(i)}
		a.EmplaceBack(component.Entity{ID: uint32(i)}, values(posMeta.ID, unsafe.Pointer(&p)))
	}

	require.Len(t, a.Chunks(), 2)
	require.True(t, a.Chunks()[0].Full())
	require.Equal(t, 1, a.Chunks()[1].Size())
}

func TestSwapErasePreservesChunkDensity(t *testing.T) {
	posMeta := component.Register[pos]()
	a := archetype.NewGraph(0).Ensure([]*component.Meta{posMeta})

	const n = 100
	locs := make([]archetype.Location, n)
	for i := 0; i < n; i++ {
		p := pos{X: float64(i)}
		locs[i] = a.EmplaceBack(component.Entity{ID: uint32(i)}, values(posMeta.ID, unsafe.Pointer(&p)))
	}

	moved, displaced := a.SwapErase(locs[40])
	require.True(t, displaced)
	require.Equal(t, uint32(n-1), moved.ID)
	require.Equal(t, n-1, a.Len())

	ptr, ok := a.Get(archetype.Location{Archetype: a, Chunk: locs[40].Chunk, Row: locs[40].Row}, posMeta.ID)
	require.True(t, ok)
	require.Equal(t, float64(n-1), (*pos)(ptr).X)
}

func TestMoveRelocatesRowIntoSupersetArchetype(t *testing.T) {
	posMeta := component.Register[pos]()
	velMeta := component.Register[vel]()
	g := archetype.NewGraph(0)
	from := g.Ensure([]*component.Meta{posMeta})
	to := g.Ensure([]*component.Meta{posMeta, velMeta})

	p := pos{X: 9, Y: 8}
	loc := from.EmplaceBack(component.Entity{ID: 5}, values(posMeta.ID, unsafe.Pointer(&p)))

	newLoc, _, _ := from.Move(loc, to)
	require.Equal(t, to, newLoc.Archetype)
	require.Equal(t, 0, from.Len())

	ptr, ok := to.Get(newLoc, posMeta.ID)
	require.True(t, ok)
	require.Equal(t, p, *(*pos)(ptr))
}
