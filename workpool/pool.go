package workpool

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TheBitDrifter/bark"
	"golang.org/x/sync/semaphore"
)

// initialized guards against more than one live Pool per process: New
// sets it and Stop clears it. See AlreadyInitializedError.
var initialized atomic.Bool

// IdleWaitTimeout bounds how long an idle worker blocks before re-checking
// its own queue and the steal targets again. Overridable via
// schedule.Config.SetWorkerIdleTimeout before constructing a Pool.
var IdleWaitTimeout = 5 * time.Millisecond

// initialDequeCapacity is the starting size of each worker's deque; it
// must be a power of two so index-masking wraps correctly.
const initialDequeCapacity = 256

type worker struct {
	id    int
	pool  *Pool
	deque *deque
	tasks *taskRing

	stop chan struct{}
}

func newWorker(id int, pool *Pool) *worker {
	return &worker{id: id, pool: pool, deque: newDeque(initialDequeCapacity), tasks: newTaskRing(), stop: make(chan struct{})}
}

// Submit allocates a task from this worker's ring and pushes it onto this
// worker's deque, waking any idle peer.
func (w *worker) Submit(fn func(), parent *Task) *Task {
	t := w.tasks.allocate(fn, parent)
	w.deque.Push(t)
	w.pool.wake()
	return t
}

// getTask implements the pop-local, steal-main, steal-random fallback
// chain described for worker scheduling.
func (w *worker) getTask() *Task {
	if t := w.deque.Pop(); t != nil {
		return t
	}
	if main := w.pool.workers[0]; main != w {
		if t := main.deque.Steal(); t != nil {
			return t
		}
	}
	if peer := w.pool.randomPeer(w); peer != nil {
		if t := peer.deque.Steal(); t != nil {
			return t
		}
	}
	return nil
}

func (w *worker) run() {
	defer w.pool.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		default:
		}
		if t := w.getTask(); t != nil {
			t.execute()
			continue
		}
		w.pool.idleWait()
	}
}

// Pool is a fixed-size work-stealing thread pool. Worker 0 is the calling
// goroutine: the pool never spawns a background goroutine for it, and
// callers drive it by calling Wait.
type Pool struct {
	workers []*worker
	idleSem *semaphore.Weighted
	wg      sync.WaitGroup
}

// New starts numWorkers-1 background goroutines (worker 0 is the calling
// goroutine, driven via Wait) and returns the pool. numWorkers must
// be at least 1.
func New(numWorkers int) *Pool {
	if !initialized.CompareAndSwap(false, true) {
		panic(bark.AddTrace(AlreadyInitializedError{}))
	}

	if numWorkers < 1 {
		numWorkers = 1
	}
	p := &Pool{idleSem: semaphore.NewWeighted(int64(numWorkers))}
	p.workers = make([]*worker, numWorkers)
	for i := range p.workers {
		p.workers[i] = newWorker(i, p)
	}
	log.Printf("workpool: starting %d workers (1 main + %d background)", numWorkers, numWorkers-1)
	p.wg.Add(numWorkers - 1)
	for i := 1; i < numWorkers; i++ {
		go p.workers[i].run()
	}
	return p
}

// NumWorkers returns the number of workers in the pool, including worker 0.
func (p *Pool) NumWorkers() int { return len(p.workers) }

func (p *Pool) randomPeer(exclude *worker) *worker {
	n := len(p.workers)
	if n <= 1 {
		return nil
	}
	start := rand.Intn(n)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if p.workers[idx] != exclude {
			return p.workers[idx]
		}
	}
	return nil
}

// wake releases one unit of the idle semaphore. If no worker is currently
// blocked in idleWait, the release is banked: the semaphore's internal
// counter goes negative relative to its nominal size, and the next
// idleWait call acquires immediately instead of sleeping out its timeout.
// This mirrors the original counting semaphore's "release wakes one
// waiter, or the next one to arrive" behavior closely enough for the
// pool's purposes.
func (p *Pool) wake() {
	p.idleSem.Release(1)
}

func (p *Pool) idleWait() {
	ctx, cancel := context.WithTimeout(context.Background(), IdleWaitTimeout)
	defer cancel()
	_ = p.idleSem.Acquire(ctx, 1)
}

// Submit pushes a task onto worker 0's queue, optionally as a child of
// parent. There is no per-goroutine routing: a call from a background
// worker's goroutine also targets worker 0's queue.
func (p *Pool) Submit(fn func(), parent *Task) *Task {
	return p.workers[0].Submit(fn, parent)
}

// SubmitOn pushes a task onto a specific worker's queue. Used by the
// scheduler to fan a wave's parallel systems out across every worker.
func (p *Pool) SubmitOn(workerIndex int, fn func(), parent *Task) *Task {
	return p.workers[workerIndex%len(p.workers)].Submit(fn, parent)
}

// Wait runs other workers' pending tasks on the calling goroutine (worker
// 0) until task completes, avoiding deadlock when the caller is itself
// inside a task.
func (p *Pool) Wait(task *Task) {
	main := p.workers[0]
	for !task.Completed() {
		if t := main.getTask(); t != nil {
			t.execute()
		}
		p.wake()
	}
}

// Stop signals background workers to exit after their current task and
// joins them. Worker 0 runs on the caller's goroutine and needs no
// signalling.
func (p *Pool) Stop() {
	log.Printf("workpool: stopping %d background workers", len(p.workers)-1)
	for i := 1; i < len(p.workers); i++ {
		close(p.workers[i].stop)
	}
	// workers idling on idleWait need one last wake to observe stop.
	done := make(chan struct{})
	go func() { p.wg.Wait(); close(done) }()
	for {
		select {
		case <-done:
			initialized.Store(false)
			return
		default:
			p.wake()
			time.Sleep(time.Millisecond)
		}
	}
}
