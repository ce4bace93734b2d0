package workpool

import "fmt"

// AlreadyInitializedError is raised when a Pool is constructed while
// another Pool in the same process has not yet been stopped. Every
// worker's per-goroutine task ring and the idle
// semaphore are sized once at startup; a second pool competing for the
// same OS threads would silently halve both pools' effective concurrency,
// so this is treated as a fatal programming error rather than allowed to
// degrade quietly.
type AlreadyInitializedError struct{}

func (e AlreadyInitializedError) Error() string {
	return "workpool: a pool has already been constructed in this process"
}
