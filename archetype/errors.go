package archetype

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/ecsforge/component"
)

// ComponentMissingError describes a lookup for a component type that an
// archetype or chunk does not carry. Archetype.Get and Chunk.Ptr do not
// return it: they report a missing component with a false result.
type ComponentMissingError struct {
	Type component.ID
}

func (e ComponentMissingError) Error() string {
	return fmt.Sprintf("archetype: component missing: %v", e.Type)
}

// ChunkCapacityExceededError indicates an internal invariant breach: code
// attempted to emplace into a chunk that archetype-level bookkeeping
// should never have allowed to fill up without rolling a new chunk first.
// It is never expected to surface to well-behaved callers and is always
// raised as a panic wrapped with bark.AddTrace, per the core's "fatal
// unless the caller mis-implements the archetype invariant" contract.
type ChunkCapacityExceededError struct{}

func (e ChunkCapacityExceededError) Error() string {
	return "archetype: chunk capacity exceeded"
}

func panicCapacityExceeded() {
	panic(bark.AddTrace(ChunkCapacityExceededError{}))
}
