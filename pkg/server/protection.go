package server

import (
	"net/http"

	"mercator-hq/switchyard/pkg/ratelimit"
	"mercator-hq/switchyard/pkg/security/auth"
)

func (s *Server) authMiddleware() func(http.Handler) http.Handler {
	opts := []auth.Option{
		auth.WithLogger(s.logger),
		auth.WithRejectFunc(func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusUnauthorized, errTypeUnauthorized, err.Error())
		}),
	}
	if s.deps.Metrics != nil {
		opts = append(opts, auth.WithFailureHook(s.deps.Metrics.RecordAuthFailure))
	}
	return auth.NewMiddleware(s.keys, opts...).Handle
}

// rateLimitMiddleware limits authenticated clients by key name and
// anonymous clients by remote address.
func (s *Server) rateLimitMiddleware() func(http.Handler) http.Handler {
	opts := ratelimit.MiddlewareOptions{
		Registry: s.limiter,
		Key:      clientKey,
		Reject: func(w http.ResponseWriter, _ *http.Request, res *ratelimit.CheckResult) {
			writeError(w, http.StatusTooManyRequests, errTypeRateLimited, res.Limit+" limit exceeded")
		},
	}
	if s.deps.Metrics != nil {
		opts.OnLimited = s.deps.Metrics.RecordRateLimited
	}
	return ratelimit.Middleware(opts)
}

func clientKey(r *http.Request) string {
	if client, ok := auth.ClientFromContext(r.Context()); ok {
		return "key:" + client.Name
	}
	return "addr:" + ratelimit.RemoteAddrKey(r)
}
