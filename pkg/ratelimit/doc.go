// Package ratelimit limits API requests per client.
//
// Each client gets a Limiter combining a per-second token bucket, an
// optional per-minute bucket and an optional cap on in-flight requests.
// The buckets are golang.org/x/time/rate limiters.
// A Registry holds one Limiter per client key and forgets clients that
// have been idle longer than the configured TTL. Middleware applies the
// registry to HTTP requests and answers 429 with Retry-After when any
// limit is exceeded.
package ratelimit
