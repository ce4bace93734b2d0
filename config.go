package ecs

import "github.com/TheBitDrifter/ecsforge/archetype"

// Config holds global tunables for the registry and its archetype
// storage. Set fields before constructing the first Registry.
var Config config = config{
	ColdGraphCacheSize: 4096,
	ChunkBytes:         archetype.ChunkBytes,
}

type config struct {
	// ColdGraphCacheSize bounds the archetype graph's auxiliary LRU used
	// once the graph's hot edge maps reach their fixed cap. 0 disables it,
	// leaving the hot edge maps uncapped.
	ColdGraphCacheSize int
	// ChunkBytes is the size budget for one archetype chunk's column
	// storage. Mirrors archetype.ChunkBytes; changing it through
	// SetChunkBytes changes the capacity every archetype created afterward
	// computes its chunks at. Assigning the field directly does not update
	// archetype.ChunkBytes.
	ChunkBytes uintptr
}

// SetColdGraphCacheSize overrides the archetype graph's auxiliary edge
// cache size for Registries constructed afterward.
func (c *config) SetColdGraphCacheSize(n int) {
	c.ColdGraphCacheSize = n
}

// SetChunkBytes overrides the archetype storage engine's chunk size budget
// for archetypes created afterward. Must be called before constructing any
// Registry whose archetypes should use the new budget; existing chunks are
// unaffected.
func (c *config) SetChunkBytes(n uintptr) {
	c.ChunkBytes = n
	archetype.ChunkBytes = n
}
