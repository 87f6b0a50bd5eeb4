package ratelimit

import "sync/atomic"

// ConcurrentLimiter is a counting semaphore for in-flight requests.
type ConcurrentLimiter struct {
	limit   int64
	current atomic.Int64
}

// NewConcurrentLimiter allows up to limit simultaneous holders.
func NewConcurrentLimiter(limit int) *ConcurrentLimiter {
	return &ConcurrentLimiter{limit: int64(limit)}
}

// Acquire takes a slot. The caller must Release it when done.
func (cl *ConcurrentLimiter) Acquire() bool {
	if cl.current.Add(1) > cl.limit {
		cl.current.Add(-1)
		return false
	}
	return true
}

// Release returns a slot taken by Acquire.
func (cl *ConcurrentLimiter) Release() {
	cl.current.Add(-1)
}

// Current returns the number of held slots.
func (cl *ConcurrentLimiter) Current() int64 {
	return cl.current.Load()
}

// Limit returns the slot count.
func (cl *ConcurrentLimiter) Limit() int64 {
	return cl.limit
}
