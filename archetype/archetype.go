package archetype

import (
	"sort"
	"unsafe"

	"github.com/TheBitDrifter/ecsforge/component"
	"github.com/TheBitDrifter/mask"
)

// Location identifies exactly where one live entity's row lives: which
// archetype, which chunk within it, and which row within that chunk.
type Location struct {
	Archetype *Archetype
	Chunk     int
	Row       int
}

// Archetype owns an ordered, append-only-then-pop_back list of chunks for
// one component-set. All chunks but the last are always full; the
// archetype keeps at least one (possibly empty) chunk at all times so the
// next insertion never needs to allocate synchronously from zero.
type Archetype struct {
	ID       uint32
	set      mask.Mask
	metas    []*component.Meta // sorted by component id; defines column order
	capacity int
	chunks   []*Chunk
}

func newArchetype(id uint32, metas []*component.Meta) *Archetype {
	sorted := append([]*component.Meta(nil), metas...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var set mask.Mask
	for _, m := range sorted {
		set.Mark(uint32(m.ID))
	}

	a := &Archetype{
		ID:       id,
		set:      set,
		metas:    sorted,
		capacity: capacityFor(sorted),
	}
	a.chunks = append(a.chunks, newChunk(sorted, a.capacity))
	return a
}

// Set returns the component-set bitset this archetype stores.
func (a *Archetype) Set() mask.Mask { return a.set }

// Contains reports whether this archetype carries component id. The
// entity type itself is not a component id and is not tracked here.
func (a *Archetype) Contains(id component.ID) bool {
	var bit mask.Mask
	bit.Mark(uint32(id))
	return a.set.ContainsAll(bit)
}

// Components returns the metadata for every component this archetype
// stores, in column order.
func (a *Archetype) Components() []*component.Meta { return a.metas }

// Len returns the total number of live entities across every chunk.
func (a *Archetype) Len() int {
	total := 0
	for _, c := range a.chunks {
		total += c.Size()
	}
	return total
}

// Chunks exposes the chunk list for range-mode iteration. Callers must
// not retain the slice across structural mutations.
func (a *Archetype) Chunks() []*Chunk { return a.chunks }

func (a *Archetype) lastChunk() *Chunk {
	return a.chunks[len(a.chunks)-1]
}

// EmplaceBack inserts a new row for ent using the provided column values,
// rolling a fresh chunk first if the last one is full, and returns the
// resulting location.
func (a *Archetype) EmplaceBack(ent component.Entity, values map[component.ID]unsafe.Pointer) Location {
	last := a.lastChunk()
	if last.Full() {
		last = newChunk(a.metas, a.capacity)
		a.chunks = append(a.chunks, last)
	}
	row := last.EmplaceBack(ent, values)
	return Location{Archetype: a, Chunk: len(a.chunks) - 1, Row: row}
}

// SwapErase removes the row at loc, using the last chunk's tail row as
// the fill-in source. Pops the last chunk if it becomes empty and is not
// the sole remaining chunk. Returns the entity that was relocated into
// loc's old slot, if any, so the caller can rewrite that entity's
// location.
func (a *Archetype) SwapErase(loc Location) (component.Entity, bool) {
	target := a.chunks[loc.Chunk]
	source := a.lastChunk()
	moved, ok := target.SwapErase(loc.Row, source)

	if source.Empty() && len(a.chunks) > 1 {
		a.chunks = a.chunks[:len(a.chunks)-1]
	}
	return moved, ok
}

// Move relocates the row at loc into other, matching columns by
// component id, then swap-erases the source row. Returns the row's new
// location in other and the entity (if any) that got relocated into the
// vacated slot in this archetype.
func (a *Archetype) Move(loc Location, other *Archetype) (Location, component.Entity, bool) {
	source := a.chunks[loc.Chunk]
	dst := other.lastChunk()
	if dst.Full() {
		dst = newChunk(other.metas, other.capacity)
		other.chunks = append(other.chunks, dst)
	}
	dstRow := source.Move(loc.Row, dst)
	newLoc := Location{Archetype: other, Chunk: len(other.chunks) - 1, Row: dstRow}

	moved, displaced := a.SwapErase(loc)
	return newLoc, moved, displaced
}

// Get returns a pointer to component id at loc's row, or false if this
// archetype does not carry that component.
func (a *Archetype) Get(loc Location, id component.ID) (unsafe.Pointer, bool) {
	return a.chunks[loc.Chunk].Ptr(id, loc.Row)
}
