package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/ecsforge/component"
)

// EntityNotFoundError is returned by Get/Set/Remove/Destroy when the
// entity's generation no longer matches the pool's. Has reports such an
// entity with false instead.
type EntityNotFoundError struct {
	Entity component.Entity
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("ecs: entity not found: %v", e.Entity)
}

// ComponentMissingError is returned by Get when the entity's archetype
// does not carry the requested component type.
type ComponentMissingError struct {
	Entity component.Entity
	Type   component.ID
}

func (e ComponentMissingError) Error() string {
	return fmt.Sprintf("ecs: entity %v missing component %v", e.Entity, e.Type)
}
