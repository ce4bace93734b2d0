package ecs

import "github.com/TheBitDrifter/ecsforge/component"

// EntityRef is a fluent handle to one entity within a registry, bundling
// the entity with the registry that owns it so call sites don't have to
// thread both through every helper. Go methods cannot introduce their own
// type parameters, so typed access (Get/Set/Remove/Has) is offered as
// package-level functions (GetRef1, SetRef1, ...) taking an EntityRef
// instead of methods on it.
type EntityRef struct {
	Entity   component.Entity
	Registry *Registry
}

// Ref wraps e for fluent access through r.
func Ref(r *Registry, e component.Entity) EntityRef {
	return EntityRef{Entity: e, Registry: r}
}

// Alive reports whether the wrapped entity is still live.
func (ref EntityRef) Alive() bool {
	return ref.Registry.Alive(ref.Entity)
}

// Destroy removes the wrapped entity from its registry.
func (ref EntityRef) Destroy() error {
	return ref.Registry.Destroy(ref.Entity)
}

// GetRef1 reads component A off ref's entity.
func GetRef1[A any](ref EntityRef) (A, error) {
	return Get1[A](ref.Registry, ref.Entity)
}

// SetRef1 sets component A on ref's entity.
func SetRef1[A any](ref EntityRef, a A) error {
	return Set1[A](ref.Registry, ref.Entity, a)
}

// RemoveRef1 strips component A off ref's entity.
func RemoveRef1[A any](ref EntityRef) error {
	return Remove1[A](ref.Registry, ref.Entity)
}

// HasRef1 reports whether ref's entity carries component A.
func HasRef1[A any](ref EntityRef) bool {
	return Has1[A](ref.Registry, ref.Entity)
}

// Clone deep-copies ref's entity into a freshly created entity in the
// same registry, failing with component.NotCopyableError if any carried
// component lacks a copy callback.
func (ref EntityRef) Clone() (EntityRef, error) {
	dest := ref.Registry.Reserve()
	ref.Registry.Sync()
	if err := ref.Registry.CloneEntityInto(ref.Entity, dest); err != nil {
		return EntityRef{}, err
	}
	return EntityRef{Entity: dest, Registry: ref.Registry}, nil
}

// CloneInto deep-copies ref's entity into a freshly created entity owned
// by dest, failing with component.NotCopyableError if any carried
// component lacks a copy callback.
func (ref EntityRef) CloneInto(dest *Registry) (EntityRef, error) {
	copied, err := ref.Clone()
	if err != nil {
		return EntityRef{}, err
	}
	destEnt := dest.Reserve()
	dest.Sync()
	if err := dest.MoveEntityFrom(ref.Registry, copied.Entity, destEnt); err != nil {
		return EntityRef{}, err
	}
	return EntityRef{Entity: destEnt, Registry: dest}, nil
}

// MoveInto transfers ref's entity (components and all) into dest,
// retiring it in ref's own registry. ref must not be used afterward.
func (ref EntityRef) MoveInto(dest *Registry) (EntityRef, error) {
	destEnt := dest.Reserve()
	dest.Sync()
	if err := dest.MoveEntityFrom(ref.Registry, ref.Entity, destEnt); err != nil {
		return EntityRef{}, err
	}
	return EntityRef{Entity: destEnt, Registry: dest}, nil
}
