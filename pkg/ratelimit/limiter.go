package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"mercator-hq/switchyard/pkg/config"
)

// Limit names reported in CheckResult.Limit and metrics.
const (
	LimitPerSecond  = "requests_per_second"
	LimitPerMinute  = "requests_per_minute"
	LimitConcurrent = "concurrent"
)

// CheckResult is the outcome of a rate limit check.
type CheckResult struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Limit names the limit that rejected the request, or the tightest
	// bucket when allowed.
	Limit string

	// Capacity and Remaining describe that limit.
	Capacity  int64
	Remaining int64

	// RetryAfter is how long to wait before retrying a rejected request.
	RetryAfter time.Duration

	release func()
}

// Release frees the concurrency slot held by an allowed request. It is a
// no-op for rejected requests and when no concurrency limit is set.
func (r *CheckResult) Release() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

// bucket is a named token bucket.
type bucket struct {
	name string
	lim  *rate.Limiter
}

// Limiter enforces every configured limit for a single client.
type Limiter struct {
	// buckets are checked in order; the longer window comes first.
	buckets    []bucket
	concurrent *ConcurrentLimiter
	now        func() time.Time
}

// NewLimiter creates a limiter from configuration. Zero limits are not
// enforced.
func NewLimiter(cfg config.RateLimitConfig) *Limiter {
	return newLimiter(cfg, time.Now)
}

func newLimiter(cfg config.RateLimitConfig, now func() time.Time) *Limiter {
	l := &Limiter{now: now}
	if cfg.RequestsPerMinute > 0 {
		l.buckets = append(l.buckets, bucket{
			name: LimitPerMinute,
			lim:  rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), cfg.RequestsPerMinute),
		})
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		l.buckets = append(l.buckets, bucket{
			name: LimitPerSecond,
			lim:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		})
	}
	if cfg.MaxConcurrent > 0 {
		l.concurrent = NewConcurrentLimiter(cfg.MaxConcurrent)
	}
	return l
}

// Check admits or rejects one request. A rejection consumes nothing from
// any bucket. An allowed result must be released when the request finishes.
func (l *Limiter) Check() *CheckResult {
	if l.concurrent != nil && !l.concurrent.Acquire() {
		return &CheckResult{
			Limit:      LimitConcurrent,
			Capacity:   l.concurrent.Limit(),
			RetryAfter: time.Second,
		}
	}
	release := func() {
		if l.concurrent != nil {
			l.concurrent.Release()
		}
	}

	now := l.now()
	taken := make([]*rate.Reservation, 0, len(l.buckets))
	for _, b := range l.buckets {
		r := b.lim.ReserveN(now, 1)
		delay := r.DelayFrom(now)
		if !r.OK() || delay > 0 {
			r.CancelAt(now)
			for _, t := range taken {
				t.CancelAt(now)
			}
			release()
			if !r.OK() {
				delay = time.Minute
			}
			return &CheckResult{
				Limit:      b.name,
				Capacity:   int64(b.lim.Burst()),
				Remaining:  remaining(b.lim, now),
				RetryAfter: delay,
			}
		}
		taken = append(taken, r)
	}

	res := &CheckResult{Allowed: true, release: release}
	if n := len(l.buckets); n > 0 {
		b := l.buckets[n-1]
		res.Limit = b.name
		res.Capacity = int64(b.lim.Burst())
		res.Remaining = remaining(b.lim, now)
	}
	return res
}

// Idle reports whether no request holds a concurrency slot.
func (l *Limiter) Idle() bool {
	return l.concurrent == nil || l.concurrent.Current() == 0
}

func remaining(lim *rate.Limiter, now time.Time) int64 {
	tokens := lim.TokensAt(now)
	if tokens < 0 {
		return 0
	}
	return int64(tokens)
}
