package archetype

import (
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/TheBitDrifter/ecsforge/component"
	"github.com/TheBitDrifter/mask"
)

// edgeKey identifies a single-component add/remove transition out of one
// archetype.
type edgeKey struct {
	set mask.Mask
	id  component.ID
}

// hotEdgeCapacity bounds how many add/remove edges each of addEdges and
// removeEdges will hold before further edges spill into coldEdges instead.
// Without a cap those maps would grow without bound for a long-running
// process that keeps discovering new component combinations. The cap
// applies only while coldEdges is enabled; a graph built with
// coldCacheSize 0 keeps every edge in the hot maps, uncapped.
const hotEdgeCapacity = 256

// Graph maps component-sets (as bitsets) to archetypes and memoizes
// add/remove edges keyed by a single component type, so repeated
// transitions between the same two archetypes skip the set hash lookup on
// warm paths. Archetypes are never destroyed during the graph's life, so
// any *Archetype it has returned remains valid for as long as the graph
// does.
type Graph struct {
	mu          sync.Mutex
	nextID      uint32
	bySet       map[mask.Mask]*Archetype
	addEdges    map[edgeKey]*Archetype
	removeEdges map[edgeKey]*Archetype
	// coldEdges backs add/remove memoization once addEdges/removeEdges
	// reach hotEdgeCapacity: new edges spill into this bounded LRU instead
	// of growing the hot maps further, and lookups fall back to it only
	// once a key misses in the corresponding hot map.
	coldEdges *lru.Cache[edgeKey, *Archetype]
}

// NewGraph constructs an empty archetype graph. coldCacheSize bounds the
// auxiliary LRU used once the process has accumulated a very large number
// of distinct component combinations; pass 0 to disable it.
func NewGraph(coldCacheSize int) *Graph {
	g := &Graph{
		bySet:       map[mask.Mask]*Archetype{},
		addEdges:    map[edgeKey]*Archetype{},
		removeEdges: map[edgeKey]*Archetype{},
	}
	if coldCacheSize > 0 {
		cache, err := lru.New[edgeKey, *Archetype](coldCacheSize)
		if err == nil {
			g.coldEdges = cache
		}
	}
	return g
}

func setOf(metas []*component.Meta) mask.Mask {
	var set mask.Mask
	for _, m := range metas {
		set.Mark(uint32(m.ID))
	}
	return set
}

// Ensure returns the archetype for exactly this component set, creating it
// on first lookup.
func (g *Graph) Ensure(metas []*component.Meta) *Archetype {
	set := setOf(metas)

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ensureLocked(set, metas)
}

func (g *Graph) ensureLocked(set mask.Mask, metas []*component.Meta) *Archetype {
	if a, ok := g.bySet[set]; ok {
		return a
	}
	a := newArchetype(g.nextID, metas)
	g.nextID++
	g.bySet[set] = a
	return a
}

// EnsureAdded returns the archetype reached from anchor by adding the
// given component metas, memoizing the transition per added type.
func (g *Graph) EnsureAdded(anchor *Archetype, added []*component.Meta) *Archetype {
	g.mu.Lock()
	defer g.mu.Unlock()

	merged := mergeMetas(anchor.metas, added)
	if len(added) == 1 {
		key := edgeKey{set: anchor.set, id: added[0].ID}
		if a, ok := g.lookupEdge(g.addEdges, key); ok {
			return a
		}
		a := g.ensureLocked(setOf(merged), merged)
		g.storeEdge(g.addEdges, key, a)
		return a
	}
	return g.ensureLocked(setOf(merged), merged)
}

// EnsureRemoved returns the archetype reached from anchor by removing the
// given component ids, memoizing the transition when exactly one
// component is removed.
func (g *Graph) EnsureRemoved(anchor *Archetype, removed []component.ID) *Archetype {
	g.mu.Lock()
	defer g.mu.Unlock()

	remaining := subtractIDs(anchor.metas, removed)
	if len(removed) == 1 {
		key := edgeKey{set: anchor.set, id: removed[0]}
		if a, ok := g.lookupEdge(g.removeEdges, key); ok {
			return a
		}
		a := g.ensureLocked(setOf(remaining), remaining)
		g.storeEdge(g.removeEdges, key, a)
		return a
	}
	return g.ensureLocked(setOf(remaining), remaining)
}

// lookupEdge checks the hot map first, falling back to coldEdges only on a
// miss there — the common case never touches the LRU.
func (g *Graph) lookupEdge(hot map[edgeKey]*Archetype, key edgeKey) (*Archetype, bool) {
	if a, ok := hot[key]; ok {
		return a, true
	}
	if g.coldEdges != nil {
		if a, ok := g.coldEdges.Get(key); ok {
			return a, true
		}
	}
	return nil, false
}

// storeEdge keeps the hot map under hotEdgeCapacity, spilling new edges into
// the bounded coldEdges LRU once that cap is reached.
func (g *Graph) storeEdge(hot map[edgeKey]*Archetype, key edgeKey, a *Archetype) {
	if g.coldEdges == nil || len(hot) < hotEdgeCapacity {
		hot[key] = a
		return
	}
	g.coldEdges.Add(key, a)
}

func mergeMetas(base []*component.Meta, added []*component.Meta) []*component.Meta {
	out := append([]*component.Meta(nil), base...)
	for _, m := range added {
		found := false
		for _, existing := range out {
			if existing.ID == m.ID {
				found = true
				break
			}
		}
		if !found {
			out = append(out, m)
		}
	}
	return out
}

func subtractIDs(base []*component.Meta, removed []component.ID) []*component.Meta {
	out := make([]*component.Meta, 0, len(base))
	for _, m := range base {
		skip := false
		for _, id := range removed {
			if m.ID == id {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, m)
		}
	}
	return out
}

// Archetypes returns every archetype the graph has ever created, in
// creation order. Used by views to find every archetype whose
// component-set is a superset of a query's requested set.
func (g *Graph) Archetypes() []*Archetype {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Archetype, 0, len(g.bySet))
	for _, a := range g.bySet {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
