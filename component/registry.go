package component

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// ID is a dense, process-wide identifier assigned to a component type the
// first time it is mentioned.
type ID uint32

// MoveFunc transfers the value at src into dst, leaving src unspecified
// afterwards (as if moved-from).
type MoveFunc func(dst, src unsafe.Pointer)

// DestructFunc destroys the value at p in place.
type DestructFunc func(p unsafe.Pointer)

// CopyFunc deep-copies the value at src into dst, leaving src unchanged.
// Registered only for component types opted into copy support via
// MarkCopyable; nil otherwise.
type CopyFunc func(dst, src unsafe.Pointer)

// Meta is the static descriptor for one component type: size, alignment,
// name, and the function pointers chunks use to treat the type as an
// opaque blob instead of relying on runtime polymorphism.
type Meta struct {
	ID            ID
	Type          reflect.Type
	Size          uintptr
	Align         uintptr
	Name          string
	MoveConstruct MoveFunc
	MoveAssign    MoveFunc
	Destruct      DestructFunc
	Copy          CopyFunc // nil unless MarkCopyable[T] was called
}

// Copyable reports whether this component type has a registered copy
// callback, i.e. whether command-buffer Clone may operate on it.
func (m Meta) Copyable() bool {
	return m.Copy != nil
}

var (
	mu     sync.Mutex
	byType = map[reflect.Type]*Meta{}
	byID   = map[ID]*Meta{}
	// byName indexes Meta by qualified type name (package path + name) in
	// addition to byType's reflect.Type key. The two disagree only when two
	// independently loaded definitions of "the same" type (by name) produce
	// distinct reflect.Type values, which can happen across Go plugin
	// boundaries — exactly the scenario TypeMetadataConflictError reports.
	byName     = map[string]*Meta{}
	nextID     ID
	entityType = reflect.TypeOf(Entity{})
)

// qualifiedName returns a stable identity string for t: its package path and
// name when both are available (named types), or its String() form as a
// fallback for unnamed types, which byName never needs to disambiguate
// between distinct reflect.Type values anyway.
func qualifiedName(t reflect.Type) string {
	if pkg, name := t.PkgPath(), t.Name(); pkg != "" && name != "" {
		return pkg + "." + name
	}
	return t.String()
}

// TypeMetadataConflictError is raised when two reflect.Type values report
// the same qualified name but are not identical — this happens when a Go
// plugin is loaded whose component type was compiled separately from the
// one already registered in this process, producing two distinct types
// that only look the same by name. Always a fatal programming error for
// the integrator to resolve, never something caller code should recover
// from.
type TypeMetadataConflictError struct {
	Type reflect.Type
}

func (e TypeMetadataConflictError) Error() string {
	return fmt.Sprintf("component: type metadata conflict for %s", e.Type)
}

// NotCopyableError is raised when a command-buffer Clone touches an
// entity carrying a component type that was never registered with
// MarkCopyable.
type NotCopyableError struct {
	Type reflect.Type
}

func (e NotCopyableError) Error() string {
	return fmt.Sprintf("component: type not copyable: %s", e.Type)
}

// Register assigns (or retrieves) the dense id and metadata for component
// type T. Safe to call repeatedly from multiple call sites; the first
// caller wins the id assignment and every later call gets the same Meta.
//
// Panics if T is identical to Entity, since components and the entity type
// must never be confused with one another.
func Register[T any]() *Meta {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		// T is an interface type, whose zero value is nil;
		// reflect.TypeOf loses type information for those, so fall back to
		// the static type via a pointer indirection.
		t = reflect.TypeOf(&zero).Elem()
	}
	if t == entityType {
		panic("component: entity type cannot be registered as a component")
	}

	mu.Lock()
	defer mu.Unlock()

	if meta, ok := byType[t]; ok {
		return meta
	}

	name := qualifiedName(t)
	if existing, ok := byName[name]; ok && existing.Type != t {
		panic(bark.AddTrace(TypeMetadataConflictError{Type: t}))
	}

	meta := &Meta{
		ID:    nextID,
		Type:  t,
		Size:  unsafe.Sizeof(zero),
		Align: uintptr(t.Align()),
		Name:  t.String(),
		MoveConstruct: func(dst, src unsafe.Pointer) {
			*(*T)(dst) = *(*T)(src)
		},
		MoveAssign: func(dst, src unsafe.Pointer) {
			*(*T)(dst) = *(*T)(src)
		},
		Destruct: func(p unsafe.Pointer) {
			var z T
			*(*T)(p) = z
		},
	}
	byType[t] = meta
	byID[meta.ID] = meta
	byName[name] = meta
	nextID++
	return meta
}

// MarkCopyable opts component type T into command-buffer Clone support,
// registering a plain value-copy callback. Go structs made only of plain
// data copy correctly via assignment, so no per-field copy constructor is
// needed beyond that — component types holding resources that must not be
// duplicated should simply not call MarkCopyable.
func MarkCopyable[T any]() *Meta {
	meta := Register[T]()
	meta.Copy = func(dst, src unsafe.Pointer) {
		*(*T)(dst) = *(*T)(src)
	}
	return meta
}

// Lookup returns the metadata for a previously registered id.
func Lookup(id ID) (*Meta, bool) {
	mu.Lock()
	defer mu.Unlock()
	meta, ok := byID[id]
	return meta, ok
}

// MetaOf returns the metadata for T, registering it if this is the first
// mention.
func MetaOf[T any]() *Meta {
	return Register[T]()
}
