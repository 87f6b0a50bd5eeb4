package ratelimit

import (
	"sync"
	"time"

	"mercator-hq/switchyard/pkg/config"
)

type entry struct {
	limiter  *Limiter
	lastSeen time.Time
}

// Registry keeps one Limiter per client key.
type Registry struct {
	cfg     config.RateLimitConfig
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	clients   map[string]*entry
	lastSweep time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the time source.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates a registry enforcing cfg for every client.
func NewRegistry(cfg config.RateLimitConfig, opts ...RegistryOption) *Registry {
	r := &Registry{
		cfg:     cfg,
		idleTTL: cfg.IdleTTL,
		now:     time.Now,
		clients: make(map[string]*entry),
	}
	if r.idleTTL <= 0 {
		r.idleTTL = config.DefaultRateLimitIdleTTL
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastSweep = r.now()
	return r
}

// Check applies the client's limits to one request.
func (r *Registry) Check(client string) *CheckResult {
	return r.limiter(client).Check()
}

// Clients returns the number of tracked clients.
func (r *Registry) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *Registry) limiter(client string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= r.idleTTL {
		r.sweepLocked(now)
	}

	e, ok := r.clients[client]
	if !ok {
		e = &entry{limiter: newLimiter(r.cfg, r.now)}
		r.clients[client] = e
	}
	e.lastSeen = now
	return e.limiter
}

// sweepLocked drops clients idle for longer than the TTL. Caller must
// hold r.mu.
func (r *Registry) sweepLocked(now time.Time) {
	for key, e := range r.clients {
		if now.Sub(e.lastSeen) >= r.idleTTL && e.limiter.Idle() {
			delete(r.clients, key)
		}
	}
	r.lastSweep = now
}
