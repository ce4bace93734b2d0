package ecs

import (
	"github.com/TheBitDrifter/ecsforge/component"
	"github.com/TheBitDrifter/ecsforge/ecs/cmdbuf"
)

// Writer defers structural mutations against dest instead of applying
// them immediately, so parallel systems can create, clone, mutate, and
// destroy entities without racing each other or the systems reading dest
// concurrently. Every Writer method call is safe from any goroutine;
// queued work only takes effect the next time cmdbuf.Flush runs, which
// package schedule's Executor does between waves.
//
// Create returns the destination entity id immediately (reserved via the
// lock-free entity pool), so the caller can queue follow-up Set/Remove
// calls against it in the same frame even though the row doesn't exist
// until flush.
type Writer struct {
	buf     *cmdbuf.Buffer
	staging *Registry
	dest    *Registry
}

// NewWriter constructs a writer that defers its mutations against dest.
// Typically called once per scheduler worker at schedule-build time.
func NewWriter(dest *Registry) *Writer {
	staging := New()
	return &Writer{buf: cmdbuf.NewBuffer(staging), staging: staging, dest: dest}
}

// Create0 queues creating an entity with no components.
func (w *Writer) Create0() component.Entity {
	reserved := w.dest.Reserve()
	staged := Create0(w.staging)
	w.buf.Create(staged, reserved)
	return reserved
}

// WriterCreate1 queues creating an entity carrying component A.
func WriterCreate1[A any](w *Writer, a A) component.Entity {
	reserved := w.dest.Reserve()
	staged := Create1[A](w.staging, a)
	w.buf.Create(staged, reserved)
	return reserved
}

// WriterCreate2 queues creating an entity carrying components A and B.
func WriterCreate2[A, B any](w *Writer, a A, b B) component.Entity {
	reserved := w.dest.Reserve()
	staged := Create2[A, B](w.staging, a, b)
	w.buf.Create(staged, reserved)
	return reserved
}

// WriterCreate3 queues creating an entity carrying components A, B, and C.
func WriterCreate3[A, B, C any](w *Writer, a A, b B, c C) component.Entity {
	reserved := w.dest.Reserve()
	staged := Create3[A, B, C](w.staging, a, b, c)
	w.buf.Create(staged, reserved)
	return reserved
}

// WriterCreate4 queues creating an entity carrying components A, B, C,
// and D.
func WriterCreate4[A, B, C, D any](w *Writer, a A, b B, c C, d D) component.Entity {
	reserved := w.dest.Reserve()
	staged := Create4[A, B, C, D](w.staging, a, b, c, d)
	w.buf.Create(staged, reserved)
	return reserved
}

// Clone queues a deep copy of entity (already live in dest) into a freshly
// reserved destination slot, returned immediately. The copy fails at
// flush time with component.NotCopyableError if entity carries a
// component type never registered with component.MarkCopyable.
func (w *Writer) Clone(entity component.Entity) component.Entity {
	reserved := w.dest.Reserve()
	w.buf.Clone(entity, reserved)
	return reserved
}

// Destroy queues destroying entity in dest.
func (w *Writer) Destroy(entity component.Entity) {
	w.buf.Destroy(entity)
}

// WriterSet1 queues overwriting (or adding) component A on entity in dest.
// An error (e.g. entity was destroyed before flush) surfaces through
// cmdbuf.Flush.
func WriterSet1[A any](w *Writer, entity component.Entity, a A) {
	w.buf.Set(func() error {
		return Set1[A](w.dest, entity, a)
	})
}

// WriterRemove1 queues stripping component A off entity in dest. An error
// surfaces through cmdbuf.Flush.
func WriterRemove1[A any](w *Writer, entity component.Entity) {
	w.buf.Remove(func() error {
		return Remove1[A](w.dest, entity)
	})
}
