package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"
)

// KeyFunc identifies the client a request is limited as.
type KeyFunc func(r *http.Request) string

// RejectFunc writes the response for a rate limited request.
type RejectFunc func(w http.ResponseWriter, r *http.Request, res *CheckResult)

// MiddlewareOptions configures Middleware. Only Registry is required.
type MiddlewareOptions struct {
	Registry *Registry

	// Key defaults to RemoteAddrKey.
	Key KeyFunc

	// Reject defaults to a plain-text 429.
	Reject RejectFunc

	// OnLimited is called with the rejecting limit name.
	OnLimited func(limit string)
}

// Middleware enforces the registry's limits and sets X-RateLimit-* and
// Retry-After headers.
func Middleware(opts MiddlewareOptions) func(http.Handler) http.Handler {
	key := opts.Key
	if key == nil {
		key = RemoteAddrKey
	}
	reject := opts.Reject
	if reject == nil {
		reject = func(w http.ResponseWriter, _ *http.Request, res *CheckResult) {
			http.Error(w, res.Limit+" limit exceeded", http.StatusTooManyRequests)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := opts.Registry.Check(key(r))
			if res.Capacity > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(res.Capacity, 10))
				w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			}
			if !res.Allowed {
				w.Header().Set("Retry-After", retryAfterSeconds(res.RetryAfter))
				if opts.OnLimited != nil {
					opts.OnLimited(res.Limit)
				}
				reject(w, r, res)
				return
			}
			defer res.Release()
			next.ServeHTTP(w, r)
		})
	}
}

// RemoteAddrKey keys requests by remote IP without the port.
func RemoteAddrKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfterSeconds(d time.Duration) string {
	secs := int64(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
