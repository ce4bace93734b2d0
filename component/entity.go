package component

import "fmt"

// Entity is an opaque (id, generation) handle. Entities are never
// dereferenced; identity is purely numeric.
type Entity struct {
	ID         uint32
	Generation uint32
}

// InvalidEntity is the sentinel value returned wherever no entity applies.
var InvalidEntity = Entity{ID: ^uint32(0), Generation: ^uint32(0)}

// Valid reports whether e differs from InvalidEntity. It does not check
// whether the entity is alive in any particular pool.
func (e Entity) Valid() bool {
	return e != InvalidEntity
}

// Less gives the lexicographic total order on (ID, Generation) that the
// entity handle is specified to support.
func (e Entity) Less(other Entity) bool {
	if e.ID != other.ID {
		return e.ID < other.ID
	}
	return e.Generation < other.Generation
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d:%d)", e.ID, e.Generation)
}
