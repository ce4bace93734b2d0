package cmdbuf

import "github.com/TheBitDrifter/ecsforge/component"

// Registry is the slice of the live registry's API the command buffer
// needs in order to replay commands, kept as an interface so this package
// never imports the ecs package that implements it.
type Registry interface {
	// Sync publishes every entity reserved via the entity pool's
	// lock-free Reserve, making it usable for component access.
	Sync()
	// Destroy removes an entity from the registry.
	Destroy(e component.Entity) error
	// MoveEntityFrom transfers staged's components from the staging
	// registry into this registry at the slot previously reserved as
	// dest, then destroys staged in the staging registry.
	MoveEntityFrom(staging Registry, staged, dest component.Entity) error
	// CloneEntityInto deep-copies source's components from this registry
	// into dest (previously reserved), failing with
	// component.NotCopyableError if any carried component lacks a copy
	// callback.
	CloneEntityInto(source, dest component.Entity) error
}
