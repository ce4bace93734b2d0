package schedule

import (
	"time"

	"github.com/TheBitDrifter/ecsforge/workpool"
)

// Config holds tunables for building and running schedules. TaskPoolSize
// and WorkerIdleTimeout reach package workpool only through
// SetTaskPoolSize and SetWorkerIdleTimeout; assigning the fields directly
// changes nothing. A new TaskPoolSize affects only Pools constructed
// afterward; a new WorkerIdleTimeout applies to every later idle wait.
var Config config = config{
	TaskPoolSize:      workpool.TaskPoolSize,
	WorkerIdleTimeout: workpool.IdleWaitTimeout,
}

type config struct {
	// Logger, if non-nil, receives one line per panic that runRecovered
	// catches (a main-thread system, or the wave's Wait). Left nil by
	// default; the standard library log package's default logger is used
	// instead. Panics inside pooled tasks are logged by package workpool.
	Logger logger
	// TaskPoolSize mirrors workpool.TaskPoolSize: how many in-flight tasks
	// each worker's ring buffer holds before recycling slots. Must be a
	// power of two.
	TaskPoolSize uint32
	// WorkerIdleTimeout mirrors workpool.IdleWaitTimeout: how long an idle
	// worker blocks before re-checking its queue and steal targets.
	WorkerIdleTimeout time.Duration
}

// logger is the narrow slice of *log.Logger this package depends on,
// kept as an interface so embedding applications can redirect wave-panic
// diagnostics without this package importing their logging stack.
type logger interface {
	Printf(format string, args ...any)
}

// SetTaskPoolSize overrides the per-worker task ring size used by Pools
// constructed afterward via workpool.New.
func (c *config) SetTaskPoolSize(n uint32) {
	c.TaskPoolSize = n
	workpool.TaskPoolSize = n
}

// SetWorkerIdleTimeout overrides the idle-wait timeout. Workers read it on
// every idle wait, so running Pools pick it up too.
func (c *config) SetWorkerIdleTimeout(d time.Duration) {
	c.WorkerIdleTimeout = d
	workpool.IdleWaitTimeout = d
}
