package cmdbuf

import (
	"sync"

	"github.com/TheBitDrifter/ecsforge/component"
)

// Buffer is one producer's FIFO queue of deferred commands plus the
// staging registry used to construct component values ahead of transfer.
// co_ecs gives every operating-system thread its own thread-local buffer;
// this port gives every scheduler worker its own Buffer instead, since Go
// has no portable thread-local storage and the scheduler's worker count
// is fixed and known up front.
type Buffer struct {
	mu      sync.Mutex
	staging Registry
	queue   []command
}

var (
	registryMu sync.Mutex
	buffers    []*Buffer
)

// NewBuffer constructs a buffer backed by staging and registers it in the
// global replay list. staging is typically a fresh, otherwise-unused
// Registry of the same concrete type as the destination.
func NewBuffer(staging Registry) *Buffer {
	b := &Buffer{staging: staging}
	registryMu.Lock()
	buffers = append(buffers, b)
	registryMu.Unlock()
	return b
}

// Staging returns the buffer's staging registry, for the ecs package to
// type-assert back to its concrete type when constructing staged values.
func (b *Buffer) Staging() Registry { return b.staging }

func (b *Buffer) push(c command) {
	b.mu.Lock()
	b.queue = append(b.queue, c)
	b.mu.Unlock()
}

// Create enqueues transferring staged's components (already constructed
// in this buffer's staging registry) into reserved, the slot reserved in
// the destination registry.
func (b *Buffer) Create(staged, reserved component.Entity) {
	b.push(command{kind: kindCreate, staged: staged, reserved: reserved})
}

// Clone enqueues deep-copying entity (already live in the destination
// registry) into reserved, the slot reserved in the destination registry.
func (b *Buffer) Clone(entity, reserved component.Entity) {
	b.push(command{kind: kindClone, entity: entity, reserved: reserved})
}

// Set enqueues fn, a closure built by the caller that moves one staged
// component into its destination entity. fn's error (e.g. the destination
// entity was destroyed before flush) surfaces through Flush.
func (b *Buffer) Set(fn func() error) {
	b.push(command{kind: kindSet, fn: fn})
}

// Remove enqueues fn, a closure built by the caller that strips one
// component type from its destination entity. fn's error surfaces through
// Flush.
func (b *Buffer) Remove(fn func() error) {
	b.push(command{kind: kindRemove, fn: fn})
}

// Destroy enqueues destroying entity in the destination registry.
func (b *Buffer) Destroy(entity component.Entity) {
	b.push(command{kind: kindDestroy, entity: entity})
}

func (b *Buffer) drain(dest Registry) error {
	b.mu.Lock()
	pending := b.queue
	b.queue = nil
	b.mu.Unlock()

	for _, c := range pending {
		if err := c.execute(b.staging, dest); err != nil {
			return err
		}
	}
	return nil
}

// Flush publishes every reservation against dest, then replays every
// registered buffer's queue, in registration order, draining each
// buffer's commands in the FIFO order they were pushed. Must run on the
// main thread between schedule waves, never concurrently with any
// buffer's push methods. Stops at the first command that fails and
// returns its error: the rest of that buffer's queue is discarded, and
// buffers after it stay queued until the next Flush.
func Flush(dest Registry) error {
	dest.Sync()

	registryMu.Lock()
	defer registryMu.Unlock()
	for _, b := range buffers {
		if err := b.drain(dest); err != nil {
			return err
		}
	}
	return nil
}
