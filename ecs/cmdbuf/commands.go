package cmdbuf

import "github.com/TheBitDrifter/ecsforge/component"

type kind int

const (
	kindCreate kind = iota
	kindClone
	kindSet
	kindRemove
	kindDestroy
)

// command is the tagged union of deferred structural mutations. Set and
// Remove carry a closure built by the ecs package, since it alone knows
// the concrete component type involved; Create, Clone, and Destroy are
// uniform across every component type and are executed directly against
// the Registry interface.
type command struct {
	kind     kind
	staged   component.Entity // Create: entity in the staging registry
	reserved component.Entity // Create/Clone: slot reserved via registry.Reserve
	entity   component.Entity // Clone/Destroy: entity in the destination registry
	fn       func() error // Set/Remove: applies the change, closing over staging+dest+types
}

func (c command) execute(staging, dest Registry) error {
	switch c.kind {
	case kindCreate:
		return dest.MoveEntityFrom(staging, c.staged, c.reserved)
	case kindClone:
		return dest.CloneEntityInto(c.entity, c.reserved)
	case kindSet, kindRemove:
		return c.fn()
	case kindDestroy:
		return dest.Destroy(c.entity)
	default:
		return nil
	}
}
