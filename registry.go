package ecs

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/TheBitDrifter/ecsforge/archetype"
	"github.com/TheBitDrifter/ecsforge/component"
	"github.com/TheBitDrifter/ecsforge/ecs/cmdbuf"
	"github.com/TheBitDrifter/ecsforge/entitypool"
)

// Registry composes the entity pool, the archetype graph, and a map from
// every live entity to its storage location. Structural methods
// (Create/Set/Remove/Destroy) are safe to call from a single goroutine at
// a time; concurrent readers use View's range or closure modes, which
// take Registry's read lock only while collecting matching archetypes
// (not while iterating rows) and must not be interleaved on the same
// goroutine with a structural call.
type Registry struct {
	mu        sync.RWMutex
	pool      *entitypool.Pool
	graph     *archetype.Graph
	locations map[component.Entity]archetype.Location
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{
		pool:      entitypool.New(),
		graph:     archetype.NewGraph(Config.ColdGraphCacheSize),
		locations: map[component.Entity]archetype.Location{},
	}
}

func (r *Registry) createWith(metas []*component.Meta, values map[component.ID]unsafe.Pointer) component.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()

	ent := r.pool.Create()
	arch := r.graph.Ensure(metas)
	r.locations[ent] = arch.EmplaceBack(ent, values)
	return ent
}

// Destroy removes e from the registry, recycling its id. Fails with
// EntityNotFoundError if e is not alive.
func (r *Registry) Destroy(e component.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyLocked(e)
}

func (r *Registry) destroyLocked(e component.Entity) error {
	loc, ok := r.locations[e]
	if !ok || !r.pool.Alive(e) {
		return EntityNotFoundError{Entity: e}
	}

	moved, displaced := loc.Archetype.SwapErase(loc)
	if displaced {
		r.locations[moved] = loc
	}
	delete(r.locations, e)
	r.pool.Recycle(e)
	return nil
}

// Alive reports whether e refers to a currently live entity.
func (r *Registry) Alive(e component.Entity) bool {
	return r.pool.Alive(e)
}

// Reserve hands out an entity id without touching archetype storage,
// lock-free and safe to call from any number of goroutines concurrently.
// The entity is not usable for component access until Sync runs.
func (r *Registry) Reserve() component.Entity {
	return r.pool.Reserve()
}

// Sync publishes every entity reserved via Reserve since the last Sync,
// making them usable for component access. Synchronous; must not run
// concurrently with Reserve, Create, Set, Remove, or Destroy.
func (r *Registry) Sync() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pool.Flush()
}

func (r *Registry) locationOf(e component.Entity) (archetype.Location, error) {
	loc, ok := r.locations[e]
	if !ok || !r.pool.Alive(e) {
		return archetype.Location{}, EntityNotFoundError{Entity: e}
	}
	return loc, nil
}

func setLocked[T any](r *Registry, e component.Entity, value T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, err := r.locationOf(e)
	if err != nil {
		return err
	}
	meta := component.Register[T]()

	if loc.Archetype.Contains(meta.ID) {
		ptr, _ := loc.Archetype.Get(loc, meta.ID)
		*(*T)(ptr) = value
		return nil
	}

	target := r.graph.EnsureAdded(loc.Archetype, []*component.Meta{meta})
	newLoc, moved, displaced := loc.Archetype.Move(loc, target)
	if displaced {
		r.locations[moved] = loc
	}
	r.locations[e] = newLoc

	ptr, _ := newLoc.Archetype.Get(newLoc, meta.ID)
	*(*T)(ptr) = value
	return nil
}

func removeLocked[T any](r *Registry, e component.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, err := r.locationOf(e)
	if err != nil {
		return err
	}
	meta := component.Register[T]()
	if !loc.Archetype.Contains(meta.ID) {
		return nil
	}

	target := r.graph.EnsureRemoved(loc.Archetype, []component.ID{meta.ID})
	newLoc, moved, displaced := loc.Archetype.Move(loc, target)
	if displaced {
		r.locations[moved] = loc
	}
	r.locations[e] = newLoc
	return nil
}

func getLocked[T any](r *Registry, e component.Entity) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var zero T
	loc, err := r.locationOf(e)
	if err != nil {
		return zero, err
	}
	meta := component.Register[T]()
	ptr, ok := loc.Archetype.Get(loc, meta.ID)
	if !ok {
		return zero, ComponentMissingError{Entity: e, Type: meta.ID}
	}
	return *(*T)(ptr), nil
}

func hasLocked[T any](r *Registry, e component.Entity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.locations[e]
	if !ok {
		return false
	}
	return loc.Archetype.Contains(component.Register[T]().ID)
}

// Set1 overwrites component T on e in place if present, otherwise moves e
// into the archetype that adds T, preserving every other component.
// Fails with EntityNotFoundError if e is not alive.
func Set1[A any](r *Registry, e component.Entity, a A) error {
	return setLocked[A](r, e, a)
}

// Set2 sets two components in sequence; see Set1.
func Set2[A, B any](r *Registry, e component.Entity, a A, b B) error {
	if err := setLocked[A](r, e, a); err != nil {
		return err
	}
	return setLocked[B](r, e, b)
}

// Remove1 strips component T from e; a no-op if T is already absent.
func Remove1[A any](r *Registry, e component.Entity) error {
	return removeLocked[A](r, e)
}

// Remove2 strips two components; see Remove1.
func Remove2[A, B any](r *Registry, e component.Entity) error {
	if err := removeLocked[A](r, e); err != nil {
		return err
	}
	return removeLocked[B](r, e)
}

// Get1 reads component T from e. Fails with EntityNotFoundError or
// ComponentMissingError.
func Get1[A any](r *Registry, e component.Entity) (A, error) {
	return getLocked[A](r, e)
}

// Get2 reads two components from e; fails on the first missing one.
func Get2[A, B any](r *Registry, e component.Entity) (A, B, error) {
	a, err := getLocked[A](r, e)
	if err != nil {
		var zeroB B
		return a, zeroB, err
	}
	b, err := getLocked[B](r, e)
	return a, b, err
}

// Has1 reports whether e carries component T. False (not an error) if e
// is not alive.
func Has1[A any](r *Registry, e component.Entity) bool {
	return hasLocked[A](r, e)
}

// Create0 allocates an entity with no components.
func Create0(r *Registry) component.Entity {
	return r.createWith(nil, nil)
}

// Create1 allocates an entity carrying a single component.
func Create1[A any](r *Registry, a A) component.Entity {
	metaA := component.Register[A]()
	return r.createWith([]*component.Meta{metaA}, map[component.ID]unsafe.Pointer{
		metaA.ID: unsafe.Pointer(&a),
	})
}

// Create2 allocates an entity carrying two components.
func Create2[A, B any](r *Registry, a A, b B) component.Entity {
	metaA, metaB := component.Register[A](), component.Register[B]()
	return r.createWith([]*component.Meta{metaA, metaB}, map[component.ID]unsafe.Pointer{
		metaA.ID: unsafe.Pointer(&a),
		metaB.ID: unsafe.Pointer(&b),
	})
}

// Create3 allocates an entity carrying three components.
func Create3[A, B, C any](r *Registry, a A, b B, c C) component.Entity {
	metaA, metaB, metaC := component.Register[A](), component.Register[B](), component.Register[C]()
	return r.createWith([]*component.Meta{metaA, metaB, metaC}, map[component.ID]unsafe.Pointer{
		metaA.ID: unsafe.Pointer(&a),
		metaB.ID: unsafe.Pointer(&b),
		metaC.ID: unsafe.Pointer(&c),
	})
}

// Create4 allocates an entity carrying four components.
func Create4[A, B, C, D any](r *Registry, a A, b B, c C, d D) component.Entity {
	metaA, metaB, metaC, metaD := component.Register[A](), component.Register[B](), component.Register[C](), component.Register[D]()
	return r.createWith([]*component.Meta{metaA, metaB, metaC, metaD}, map[component.ID]unsafe.Pointer{
		metaA.ID: unsafe.Pointer(&a),
		metaB.ID: unsafe.Pointer(&b),
		metaC.ID: unsafe.Pointer(&c),
		metaD.ID: unsafe.Pointer(&d),
	})
}

// MoveEntityFrom transfers staged's components from the staging registry
// into this registry at the slot reserved as dest, then retires staged in
// staging. Implements cmdbuf.Registry; staging must be a *Registry.
func (r *Registry) MoveEntityFrom(staging cmdbuf.Registry, staged, dest component.Entity) error {
	stagingReg, ok := staging.(*Registry)
	if !ok {
		return fmt.Errorf("ecs: staging registry has unexpected type %T", staging)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stagingReg.mu.Lock()
	defer stagingReg.mu.Unlock()

	loc, ok := stagingReg.locations[staged]
	if !ok {
		return EntityNotFoundError{Entity: staged}
	}

	metas := loc.Archetype.Components()
	values := make(map[component.ID]unsafe.Pointer, len(metas))
	for _, m := range metas {
		ptr, _ := loc.Archetype.Get(loc, m.ID)
		values[m.ID] = ptr
	}

	target := r.graph.Ensure(metas)
	r.locations[dest] = target.EmplaceBack(dest, values)

	moved, displaced := loc.Archetype.SwapErase(loc)
	if displaced {
		stagingReg.locations[moved] = loc
	}
	delete(stagingReg.locations, staged)
	stagingReg.pool.Recycle(staged)
	return nil
}

// CloneEntityInto deep-copies source's components into the slot reserved
// as dest. Fails with component.NotCopyableError if any carried
// component type was never registered with component.MarkCopyable.
// Implements cmdbuf.Registry.
func (r *Registry) CloneEntityInto(source, dest component.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, err := r.locationOf(source)
	if err != nil {
		return err
	}

	metas := loc.Archetype.Components()
	for _, m := range metas {
		if !m.Copyable() {
			return component.NotCopyableError{Type: m.Type}
		}
	}

	values := make(map[component.ID]unsafe.Pointer, len(metas))
	for _, m := range metas {
		srcPtr, _ := loc.Archetype.Get(loc, m.ID)
		tmp := reflect.New(m.Type)
		m.Copy(tmp.UnsafePointer(), srcPtr)
		values[m.ID] = tmp.UnsafePointer()
	}

	target := r.graph.Ensure(metas)
	r.locations[dest] = target.EmplaceBack(dest, values)
	return nil
}
