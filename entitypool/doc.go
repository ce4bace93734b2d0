// Package entitypool hands out entity handles and tracks which ones are
// alive. Ordinary Create/Recycle calls run under a single writer and
// mutate the pool directly; Reserve is safe to call from any number of
// goroutines concurrently with no lock, decrementing a shared cursor over
// a pre-extended id range, and must be reconciled back into the pool with
// Flush before the reserved handles can be recycled again.
package entitypool
