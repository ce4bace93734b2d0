package workpool

import (
	"log"
	"sync/atomic"
)

// Task is a runnable unit of work plus an optional parent task that should
// be notified when this task (and all of its own children) have finished.
type Task struct {
	fn     func()
	parent *Task
	// pending counts this task plus every child submitted against it; it
	// starts at 1 for the task's own body and is decremented once more
	// per finished child, so the task (and its parent chain) only
	// completes once every descendant has.
	pending atomic.Int32
	// recovered holds whatever panic value fn raised, if any. A task may
	// run on a background worker goroutine where an unrecovered panic
	// would take down the whole process, so execute always recovers and
	// stashes the value here for the submitter to observe via Recovered.
	recovered atomic.Value
}

// Completed reports whether this task and all of its children have run.
func (t *Task) Completed() bool {
	return t.pending.Load() == 0
}

// Recovered returns the value recovered from fn's panic, if it panicked.
func (t *Task) Recovered() (any, bool) {
	v := t.recovered.Load()
	if v == nil {
		return nil, false
	}
	return v.(panicValue).value, true
}

type panicValue struct{ value any }

func (t *Task) execute() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("workpool: task panicked: %v", r)
			t.recovered.Store(panicValue{value: r})
		}
		t.finish()
	}()
	t.fn()
}

func (t *Task) finish() {
	if t.pending.Add(-1) == 0 && t.parent != nil {
		t.parent.finish()
	}
}

// TaskPoolSize bounds how many tasks a single worker may have in flight at
// once: task slots are recycled in ring-buffer order, so a task must
// complete within this many subsequent submissions on the same worker or
// it risks being overwritten while still pending. Must be a power of two.
// Overridable via schedule.Config.SetTaskPoolSize before constructing a
// Pool; already-constructed pools keep whatever size they started with.
var TaskPoolSize uint32 = 4096

// taskRing is a per-worker, non-freeing task allocator: submissions simply
// overwrite the slot TaskPoolSize submissions ago. Callers that need a
// task to outlive that window must wait on it before resubmitting that
// many more times on the same worker.
type taskRing struct {
	slots   []Task
	counter uint64
}

func newTaskRing() *taskRing {
	return &taskRing{slots: make([]Task, TaskPoolSize)}
}

func (r *taskRing) allocate(fn func(), parent *Task) *Task {
	slot := &r.slots[r.counter&(uint64(len(r.slots))-1)]
	r.counter++
	*slot = Task{fn: fn, parent: parent}
	slot.pending.Store(1)
	if parent != nil {
		parent.pending.Add(1)
	}
	return slot
}
