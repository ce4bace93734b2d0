package ecs

import (
	"iter"

	"github.com/TheBitDrifter/ecsforge/archetype"
	"github.com/TheBitDrifter/ecsforge/component"
	"github.com/TheBitDrifter/ecsforge/schedule"
	"github.com/TheBitDrifter/ecsforge/workpool"
)

// matching returns every archetype in the graph whose component set is a
// superset of ids, in the graph's creation order.
func matching(r *Registry, ids []component.ID) []*archetype.Archetype {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*archetype.Archetype
	for _, a := range r.graph.Archetypes() {
		ok := true
		for _, id := range ids {
			if !a.Contains(id) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, a)
		}
	}
	return out
}

// View1 iterates every live entity carrying component A, in range mode
// (All), closure mode (Each), or data-parallel closure mode (ParEach).
// writeA controls whether the derived AccessPattern declares write or
// read access to A; the view always yields a pointer regardless, since Go
// has no way to express a read-only pointer.
type View1[A any] struct {
	r      *Registry
	idA    component.ID
	writeA bool
}

// NewView1 constructs a view over component A. Pass writeA true if the
// caller mutates through the yielded pointer.
func NewView1[A any](r *Registry, writeA bool) *View1[A] {
	return &View1[A]{r: r, idA: component.Register[A]().ID, writeA: writeA}
}

// Access returns the access pattern this view declares, for use when
// building a schedule.System.
func (v *View1[A]) Access() schedule.AccessPattern {
	if v.writeA {
		return schedule.WritesComponent(v.idA)
	}
	return schedule.ReadsComponent(v.idA)
}

// Each calls f once per matching row, on the calling goroutine.
func (v *View1[A]) Each(f func(component.Entity, *A)) {
	for _, a := range matching(v.r, []component.ID{v.idA}) {
		for _, c := range a.Chunks() {
			for row := 0; row < c.Size(); row++ {
				ptr, _ := c.Ptr(v.idA, row)
				f(c.Entity(row), (*A)(ptr))
			}
		}
	}
}

// All returns a range-mode iterator over every matching row.
func (v *View1[A]) All() iter.Seq2[component.Entity, *A] {
	return func(yield func(component.Entity, *A) bool) {
		for _, a := range matching(v.r, []component.ID{v.idA}) {
			for _, c := range a.Chunks() {
				for row := 0; row < c.Size(); row++ {
					ptr, _ := c.Ptr(v.idA, row)
					if !yield(c.Entity(row), (*A)(ptr)) {
						return
					}
				}
			}
		}
	}
}

// ParEach partitions matching chunks across pool's workers, running f
// once per row with no ordering guarantee across chunks. f must not touch
// any entity outside the row it was called with; cross-row coordination
// belongs in a command buffer.
func (v *View1[A]) ParEach(pool *workpool.Pool, f func(component.Entity, *A)) {
	type unit struct {
		a   *archetype.Archetype
		idx int
	}
	var units []unit
	for _, a := range matching(v.r, []component.ID{v.idA}) {
		for i := range a.Chunks() {
			units = append(units, unit{a, i})
		}
	}
	if len(units) == 0 {
		return
	}

	parent := pool.Submit(func() {}, nil)
	n := pool.NumWorkers()
	for i, u := range units {
		c := u.a.Chunks()[u.idx]
		worker := i % n
		pool.SubmitOn(worker, func() {
			for row := 0; row < c.Size(); row++ {
				ptr, _ := c.Ptr(v.idA, row)
				f(c.Entity(row), (*A)(ptr))
			}
		}, parent)
	}
	pool.Wait(parent)
}

// View2 iterates every live entity carrying both A and B.
type View2[A, B any] struct {
	r              *Registry
	idA, idB       component.ID
	writeA, writeB bool
}

// NewView2 constructs a view over components A and B.
func NewView2[A, B any](r *Registry, writeA, writeB bool) *View2[A, B] {
	return &View2[A, B]{
		r: r,
		idA: component.Register[A]().ID, idB: component.Register[B]().ID,
		writeA: writeA, writeB: writeB,
	}
}

// Access returns the access pattern this view declares.
func (v *View2[A, B]) Access() schedule.AccessPattern {
	pat := schedule.NoAccessPattern()
	if v.writeA {
		pat = pat.Merge(schedule.WritesComponent(v.idA))
	} else {
		pat = pat.Merge(schedule.ReadsComponent(v.idA))
	}
	if v.writeB {
		pat = pat.Merge(schedule.WritesComponent(v.idB))
	} else {
		pat = pat.Merge(schedule.ReadsComponent(v.idB))
	}
	return pat
}

// Each calls f once per matching row, on the calling goroutine.
func (v *View2[A, B]) Each(f func(component.Entity, *A, *B)) {
	ids := []component.ID{v.idA, v.idB}
	for _, a := range matching(v.r, ids) {
		for _, c := range a.Chunks() {
			for row := 0; row < c.Size(); row++ {
				ptrA, _ := c.Ptr(v.idA, row)
				ptrB, _ := c.Ptr(v.idB, row)
				f(c.Entity(row), (*A)(ptrA), (*B)(ptrB))
			}
		}
	}
}

// All returns a range-mode iterator over every matching row. Since
// iter.Seq2 only carries two values, the row's components are packed
// into a *Pair.
func (v *View2[A, B]) All() iter.Seq2[component.Entity, *Pair[A, B]] {
	return func(yield func(component.Entity, *Pair[A, B]) bool) {
		ids := []component.ID{v.idA, v.idB}
		for _, a := range matching(v.r, ids) {
			for _, c := range a.Chunks() {
				for row := 0; row < c.Size(); row++ {
					ptrA, _ := c.Ptr(v.idA, row)
					ptrB, _ := c.Ptr(v.idB, row)
					pair := &Pair[A, B]{A: (*A)(ptrA), B: (*B)(ptrB)}
					if !yield(c.Entity(row), pair) {
						return
					}
				}
			}
		}
	}
}

// ParEach partitions matching chunks across pool's workers; see
// View1.ParEach.
func (v *View2[A, B]) ParEach(pool *workpool.Pool, f func(component.Entity, *A, *B)) {
	type unit struct {
		a   *archetype.Archetype
		idx int
	}
	ids := []component.ID{v.idA, v.idB}
	var units []unit
	for _, a := range matching(v.r, ids) {
		for i := range a.Chunks() {
			units = append(units, unit{a, i})
		}
	}
	if len(units) == 0 {
		return
	}

	parent := pool.Submit(func() {}, nil)
	n := pool.NumWorkers()
	for i, u := range units {
		c := u.a.Chunks()[u.idx]
		worker := i % n
		pool.SubmitOn(worker, func() {
			for row := 0; row < c.Size(); row++ {
				ptrA, _ := c.Ptr(v.idA, row)
				ptrB, _ := c.Ptr(v.idB, row)
				f(c.Entity(row), (*A)(ptrA), (*B)(ptrB))
			}
		}, parent)
	}
	pool.Wait(parent)
}

// Pair packs the two pointers a View2 range iteration yields per row.
type Pair[A, B any] struct {
	A *A
	B *B
}

// Triple packs the three pointers a View3 range iteration yields per row.
type Triple[A, B, C any] struct {
	A *A
	B *B
	C *C
}

// Quad packs the four pointers a View4 range iteration yields per row.
type Quad[A, B, C, D any] struct {
	A *A
	B *B
	C *C
	D *D
}

// View3 iterates every live entity carrying A, B, and C.
type View3[A, B, C any] struct {
	r                      *Registry
	idA, idB, idC          component.ID
	writeA, writeB, writeC bool
}

// NewView3 constructs a view over components A, B, and C.
func NewView3[A, B, C any](r *Registry, writeA, writeB, writeC bool) *View3[A, B, C] {
	return &View3[A, B, C]{
		r:   r,
		idA: component.Register[A]().ID, idB: component.Register[B]().ID, idC: component.Register[C]().ID,
		writeA: writeA, writeB: writeB, writeC: writeC,
	}
}

// Access returns the access pattern this view declares.
func (v *View3[A, B, C]) Access() schedule.AccessPattern {
	pat := schedule.NoAccessPattern()
	for _, wa := range []struct {
		id    component.ID
		write bool
	}{{v.idA, v.writeA}, {v.idB, v.writeB}, {v.idC, v.writeC}} {
		if wa.write {
			pat = pat.Merge(schedule.WritesComponent(wa.id))
		} else {
			pat = pat.Merge(schedule.ReadsComponent(wa.id))
		}
	}
	return pat
}

// Each calls f once per matching row, on the calling goroutine.
func (v *View3[A, B, C]) Each(f func(component.Entity, *A, *B, *C)) {
	ids := []component.ID{v.idA, v.idB, v.idC}
	for _, a := range matching(v.r, ids) {
		for _, c := range a.Chunks() {
			for row := 0; row < c.Size(); row++ {
				ptrA, _ := c.Ptr(v.idA, row)
				ptrB, _ := c.Ptr(v.idB, row)
				ptrC, _ := c.Ptr(v.idC, row)
				f(c.Entity(row), (*A)(ptrA), (*B)(ptrB), (*C)(ptrC))
			}
		}
	}
}

// All returns a range-mode iterator over every matching row.
func (v *View3[A, B, C]) All() iter.Seq2[component.Entity, *Triple[A, B, C]] {
	return func(yield func(component.Entity, *Triple[A, B, C]) bool) {
		ids := []component.ID{v.idA, v.idB, v.idC}
		for _, a := range matching(v.r, ids) {
			for _, c := range a.Chunks() {
				for row := 0; row < c.Size(); row++ {
					ptrA, _ := c.Ptr(v.idA, row)
					ptrB, _ := c.Ptr(v.idB, row)
					ptrC, _ := c.Ptr(v.idC, row)
					t := &Triple[A, B, C]{A: (*A)(ptrA), B: (*B)(ptrB), C: (*C)(ptrC)}
					if !yield(c.Entity(row), t) {
						return
					}
				}
			}
		}
	}
}

// ParEach partitions matching chunks across pool's workers; see
// View1.ParEach.
func (v *View3[A, B, C]) ParEach(pool *workpool.Pool, f func(component.Entity, *A, *B, *C)) {
	type unit struct {
		a   *archetype.Archetype
		idx int
	}
	ids := []component.ID{v.idA, v.idB, v.idC}
	var units []unit
	for _, a := range matching(v.r, ids) {
		for i := range a.Chunks() {
			units = append(units, unit{a, i})
		}
	}
	if len(units) == 0 {
		return
	}

	parent := pool.Submit(func() {}, nil)
	n := pool.NumWorkers()
	for i, u := range units {
		c := u.a.Chunks()[u.idx]
		worker := i % n
		pool.SubmitOn(worker, func() {
			for row := 0; row < c.Size(); row++ {
				ptrA, _ := c.Ptr(v.idA, row)
				ptrB, _ := c.Ptr(v.idB, row)
				ptrC, _ := c.Ptr(v.idC, row)
				f(c.Entity(row), (*A)(ptrA), (*B)(ptrB), (*C)(ptrC))
			}
		}, parent)
	}
	pool.Wait(parent)
}

// View4 iterates every live entity carrying A, B, C, and D.
type View4[A, B, C, D any] struct {
	r                              *Registry
	idA, idB, idC, idD             component.ID
	writeA, writeB, writeC, writeD bool
}

// NewView4 constructs a view over components A, B, C, and D.
func NewView4[A, B, C, D any](r *Registry, writeA, writeB, writeC, writeD bool) *View4[A, B, C, D] {
	return &View4[A, B, C, D]{
		r:   r,
		idA: component.Register[A]().ID, idB: component.Register[B]().ID,
		idC: component.Register[C]().ID, idD: component.Register[D]().ID,
		writeA: writeA, writeB: writeB, writeC: writeC, writeD: writeD,
	}
}

// Access returns the access pattern this view declares.
func (v *View4[A, B, C, D]) Access() schedule.AccessPattern {
	pat := schedule.NoAccessPattern()
	for _, wa := range []struct {
		id    component.ID
		write bool
	}{{v.idA, v.writeA}, {v.idB, v.writeB}, {v.idC, v.writeC}, {v.idD, v.writeD}} {
		if wa.write {
			pat = pat.Merge(schedule.WritesComponent(wa.id))
		} else {
			pat = pat.Merge(schedule.ReadsComponent(wa.id))
		}
	}
	return pat
}

// Each calls f once per matching row, on the calling goroutine.
func (v *View4[A, B, C, D]) Each(f func(component.Entity, *A, *B, *C, *D)) {
	ids := []component.ID{v.idA, v.idB, v.idC, v.idD}
	for _, a := range matching(v.r, ids) {
		for _, c := range a.Chunks() {
			for row := 0; row < c.Size(); row++ {
				ptrA, _ := c.Ptr(v.idA, row)
				ptrB, _ := c.Ptr(v.idB, row)
				ptrC, _ := c.Ptr(v.idC, row)
				ptrD, _ := c.Ptr(v.idD, row)
				f(c.Entity(row), (*A)(ptrA), (*B)(ptrB), (*C)(ptrC), (*D)(ptrD))
			}
		}
	}
}

// All returns a range-mode iterator over every matching row.
func (v *View4[A, B, C, D]) All() iter.Seq2[component.Entity, *Quad[A, B, C, D]] {
	return func(yield func(component.Entity, *Quad[A, B, C, D]) bool) {
		ids := []component.ID{v.idA, v.idB, v.idC, v.idD}
		for _, a := range matching(v.r, ids) {
			for _, c := range a.Chunks() {
				for row := 0; row < c.Size(); row++ {
					ptrA, _ := c.Ptr(v.idA, row)
					ptrB, _ := c.Ptr(v.idB, row)
					ptrC, _ := c.Ptr(v.idC, row)
					ptrD, _ := c.Ptr(v.idD, row)
					q := &Quad[A, B, C, D]{A: (*A)(ptrA), B: (*B)(ptrB), C: (*C)(ptrC), D: (*D)(ptrD)}
					if !yield(c.Entity(row), q) {
						return
					}
				}
			}
		}
	}
}

// ParEach partitions matching chunks across pool's workers; see
// View1.ParEach.
func (v *View4[A, B, C, D]) ParEach(pool *workpool.Pool, f func(component.Entity, *A, *B, *C, *D)) {
	type unit struct {
		a   *archetype.Archetype
		idx int
	}
	ids := []component.ID{v.idA, v.idB, v.idC, v.idD}
	var units []unit
	for _, a := range matching(v.r, ids) {
		for i := range a.Chunks() {
			units = append(units, unit{a, i})
		}
	}
	if len(units) == 0 {
		return
	}

	parent := pool.Submit(func() {}, nil)
	n := pool.NumWorkers()
	for i, u := range units {
		c := u.a.Chunks()[u.idx]
		worker := i % n
		pool.SubmitOn(worker, func() {
			for row := 0; row < c.Size(); row++ {
				ptrA, _ := c.Ptr(v.idA, row)
				ptrB, _ := c.Ptr(v.idB, row)
				ptrC, _ := c.Ptr(v.idC, row)
				ptrD, _ := c.Ptr(v.idD, row)
				f(c.Entity(row), (*A)(ptrA), (*B)(ptrB), (*C)(ptrC), (*D)(ptrD))
			}
		}, parent)
	}
	pool.Wait(parent)
}
