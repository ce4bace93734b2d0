// Package workpool is a fixed-size work-stealing thread pool. Each worker
// owns a Chase-Lev deque; idle workers steal from the main worker first,
// then from a random peer, falling back to a timed semaphore wait. The
// main goroutine is worker 0: instead of running a background loop it
// drives progress by calling Wait, executing other workers' pending work
// inline until the task it is waiting on completes.
package workpool
