package archetype

import (
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/ecsforge/component"
)

// ChunkBytes is the size budget for one chunk's column storage, not
// counting Go's own slice/array headers. Defaults to co_ecs's 16 KiB
// chunk constant; the embedding application may override it via
// ecs.Config.SetChunkBytes before constructing its first Registry.
var ChunkBytes uintptr = 16 * 1024

// column is one SoA block inside a chunk: a contiguous backing array of
// exactly capacity elements of one component type, addressed by raw
// pointer arithmetic using the type's registered size.
type column struct {
	meta *component.Meta
	base unsafe.Pointer // &[capacity]T
}

func newColumn(meta *component.Meta, capacity int) column {
	arrType := reflect.ArrayOf(capacity, meta.Type)
	v := reflect.New(arrType)
	return column{meta: meta, base: v.UnsafePointer()}
}

func (c column) at(row int) unsafe.Pointer {
	return unsafe.Add(c.base, uintptr(row)*c.meta.Size)
}

// capacityFor computes the largest N such that one row's worth of bytes
// (the entity column plus every component column) times N fits inside
// ChunkBytes. Capacity is always at least 1: an archetype with components
// too large to batch still stores one entity per chunk.
func capacityFor(metas []*component.Meta) int {
	rowBytes := uintptr(unsafe.Sizeof(component.Entity{}))
	for _, m := range metas {
		rowBytes += m.Size
	}
	if rowBytes == 0 {
		rowBytes = 1
	}
	n := int(ChunkBytes / rowBytes)
	if n < 1 {
		n = 1
	}
	return n
}

// Chunk is a fixed-capacity SoA block: one entity column plus one column
// per component in the owning archetype's set. Entries at [0, size) are
// constructed; entries at [size, capacity) are uninitialized and must not
// be read.
type Chunk struct {
	entities []component.Entity
	columns  []column
	ids      []component.ID // columns[i] holds component ids[i]
	size     int
	capacity int
}

func newChunk(metas []*component.Meta, capacity int) *Chunk {
	c := &Chunk{
		entities: make([]component.Entity, capacity),
		columns:  make([]column, len(metas)),
		ids:      make([]component.ID, len(metas)),
		capacity: capacity,
	}
	for i, m := range metas {
		c.columns[i] = newColumn(m, capacity)
		c.ids[i] = m.ID
	}
	return c
}

// Size returns the number of constructed rows.
func (c *Chunk) Size() int { return c.size }

// Capacity returns the maximum number of rows this chunk can hold.
func (c *Chunk) Capacity() int { return c.capacity }

// Full reports whether the chunk has no more free rows.
func (c *Chunk) Full() bool { return c.size == c.capacity }

// Empty reports whether the chunk holds no rows.
func (c *Chunk) Empty() bool { return c.size == 0 }

// Entity returns the entity handle stored at row.
func (c *Chunk) Entity(row int) component.Entity { return c.entities[row] }

func (c *Chunk) columnIndex(id component.ID) int {
	for i, cid := range c.ids {
		if cid == id {
			return i
		}
	}
	return -1
}

// Ptr returns a pointer into column id at row, or (nil, false) if this
// chunk does not carry that component.
func (c *Chunk) Ptr(id component.ID, row int) (unsafe.Pointer, bool) {
	i := c.columnIndex(id)
	if i < 0 {
		return nil, false
	}
	return c.columns[i].at(row), true
}

// EmplaceBack move-constructs values (one unsafe.Pointer per component,
// keyed by component id) into a new row, along with the owning
// entity. Precondition: !c.Full(). values may be shorter than c.columns
// when a caller only has some of the archetype's columns readily staged
// (the remaining columns are left zero-valued).
func (c *Chunk) EmplaceBack(ent component.Entity, values map[component.ID]unsafe.Pointer) int {
	if c.Full() {
		panicCapacityExceeded()
	}
	row := c.size
	c.entities[row] = ent
	for i, col := range c.columns {
		if src, ok := values[c.ids[i]]; ok {
			col.meta.MoveConstruct(col.at(row), src)
		}
	}
	c.size++
	return row
}

// SwapErase removes the row at index. If this chunk is itself the fill-in
// source (other == c, i.e. the archetype's last chunk) and the row is its
// last live row, it simply pops the tail and returns false. Otherwise it
// move-assigns every column from (last, size-1) of other into (c, index),
// pops the tail of other, and reports the entity that got relocated so
// the caller can rewrite that entity's location.
func (c *Chunk) SwapErase(index int, other *Chunk) (component.Entity, bool) {
	if c == other && (c.size == 1 || index == c.size-1) {
		c.popBack(index)
		return component.Entity{}, false
	}
	otherRow := other.size - 1
	moved := other.entities[otherRow]
	for i, col := range c.columns {
		srcIdx := other.columnIndex(c.ids[i])
		if srcIdx < 0 {
			continue
		}
		srcPtr := other.columns[srcIdx].at(otherRow)
		col.meta.MoveAssign(col.at(index), srcPtr)
	}
	other.popBackRow(otherRow)
	c.entities[index] = moved
	return moved, true
}

// popBack destructs and removes the last row; index must equal size-1 (or
// size must be 1), matching the semantics documented on SwapErase.
func (c *Chunk) popBack(index int) {
	c.destroyAt(index)
	c.size--
}

func (c *Chunk) popBackRow(row int) {
	c.destroyAt(row)
	c.size--
}

func (c *Chunk) destroyAt(row int) {
	for _, col := range c.columns {
		col.meta.Destruct(col.at(row))
	}
}

// Move move-constructs the row at index into dst's next free row for
// every column present in both chunks (columns are matched by component
// id; components absent from dst are silently dropped). The caller must
// subsequently SwapErase the source row. Returns the destination row.
func (c *Chunk) Move(index int, dst *Chunk) int {
	if dst.Full() {
		panicCapacityExceeded()
	}
	dstRow := dst.size
	for i, col := range c.columns {
		dstIdx := dst.columnIndex(c.ids[i])
		if dstIdx < 0 {
			continue
		}
		dst.columns[dstIdx].meta.MoveConstruct(dst.columns[dstIdx].at(dstRow), col.at(index))
	}
	dst.entities[dstRow] = c.entities[index]
	dst.size++
	return dstRow
}
