package entitypool

import (
	"sync"
	"sync/atomic"

	"github.com/TheBitDrifter/ecsforge/component"
)

// Pool hands out entity handles and tracks which generation of each id is
// currently alive. Create, Recycle, and Flush all assume a single caller
// (or external synchronization); Reserve is the one exception and may be
// called from any number of goroutines at once, racing only against other
// Reserve calls.
type Pool struct {
	mu sync.Mutex

	nextID      atomic.Uint32
	freeCursor  atomic.Int64
	generations []uint32
	freeIDs     []uint32
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// Create synchronously hands out a handle, reusing the most recently
// recycled id when one is available. Not safe to call concurrently with
// itself, Recycle, Flush, or Reserve.
func (p *Pool) Create() component.Entity {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.freeIDs); n > 0 {
		id := p.freeIDs[n-1]
		p.freeIDs = p.freeIDs[:n-1]
		p.freeCursor.Store(int64(len(p.freeIDs)))
		return component.Entity{ID: id, Generation: p.generations[id]}
	}

	id := p.nextID.Add(1) - 1
	p.generations = append(p.generations, 0)
	return component.Entity{ID: id, Generation: 0}
}

// Alive reports whether e refers to the current generation of a
// still-live id.
func (p *Pool) Alive(e component.Entity) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.aliveLocked(e)
}

func (p *Pool) aliveLocked(e component.Entity) bool {
	if int(e.ID) >= len(p.generations) {
		return false
	}
	return p.generations[e.ID] == e.Generation
}

// Recycle retires e, bumping its generation so stale handles fail Alive.
// A no-op if e is not currently alive.
func (p *Pool) Recycle(e component.Entity) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.aliveLocked(e) {
		return
	}
	p.generations[e.ID]++
	p.freeIDs = append(p.freeIDs, e.ID)
	p.freeCursor.Store(int64(len(p.freeIDs)))
}

// Reserve atomically hands out a handle without touching any of the
// pool's non-atomic state, so it is safe to call from many goroutines
// concurrently with each other (but not with Create, Recycle, or Flush).
// Reserved entities are not usable for component access until a
// subsequent Flush reconciles the pool.
func (p *Pool) Reserve() component.Entity {
	cursor := p.freeCursor.Add(-1)
	if cursor >= 0 {
		// cursor (the post-decrement value) indexes the free slot we just
		// claimed.
		id := p.loadFreeID(int(cursor))
		return component.Entity{ID: id, Generation: p.loadGeneration(id)}
	}
	id := p.nextID.Add(1) - 1
	return component.Entity{ID: id, Generation: 0}
}

// loadFreeID and loadGeneration read pool-owned slices without the mutex.
// Safe only because Reserve's contract forbids concurrent Create/Recycle/
// Flush, and because the slot at index cursor was already extended by a
// prior Recycle or Flush before any Reserve could observe it.
func (p *Pool) loadFreeID(index int) uint32 {
	return p.freeIDs[index]
}

func (p *Pool) loadGeneration(id uint32) uint32 {
	return p.generations[id]
}

// Flush reconciles concurrent Reserve calls back into the pool's
// synchronous state. Synchronous and single-threaded: must not run
// concurrently with Create, Recycle, Reserve, or another Flush.
func (p *Pool) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()

	cursor := p.freeCursor.Load()
	for cursor < 0 {
		p.generations = append(p.generations, 0)
		cursor++
	}
	if int(cursor) < len(p.freeIDs) {
		p.freeIDs = p.freeIDs[:cursor]
	}
	p.freeCursor.Store(int64(len(p.freeIDs)))
}

// Len returns the number of ids this pool has ever minted (alive or not).
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.generations)
}
