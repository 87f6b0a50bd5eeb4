package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mercator-hq/switchyard/pkg/telemetry/logging"
)

// Headers an API key is read from, in order.
const (
	AuthorizationHeader = "Authorization"
	APIKeyHeader        = "X-API-Key"
)

// RejectFunc writes the response for a request that failed authentication.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// Middleware authenticates requests against a KeySet.
type Middleware struct {
	keys      *KeySet
	logger    *slog.Logger
	reject    RejectFunc
	onFailure func(reason string)
}

// Option configures a Middleware.
type Option func(*Middleware)

// WithLogger sets the logger for authentication failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRejectFunc replaces the default plain-text 401 response.
func WithRejectFunc(fn RejectFunc) Option {
	return func(m *Middleware) {
		if fn != nil {
			m.reject = fn
		}
	}
}

// WithFailureHook is called with "missing", "invalid" or "disabled" for
// each rejected request.
func WithFailureHook(fn func(reason string)) Option {
	return func(m *Middleware) {
		m.onFailure = fn
	}
}

// NewMiddleware creates an authentication middleware.
func NewMiddleware(keys *KeySet, opts ...Option) *Middleware {
	m := &Middleware{
		keys:   keys,
		logger: slog.Default(),
		reject: func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle wraps next with API key authentication.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, err := m.keys.Validate(ExtractKey(r))
		if err != nil {
			reason := FailureReason(err)
			m.logger.WarnContext(r.Context(), "authentication failed",
				"reason", reason,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			if m.onFailure != nil {
				m.onFailure(reason)
			}
			w.Header().Set("WWW-Authenticate", `Bearer realm="switchyard"`)
			m.reject(w, r, err)
			return
		}

		ctx := logging.WithClient(WithClient(r.Context(), client), client.Name)
		m.logger.DebugContext(ctx, "client authenticated")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractKey returns the API key from the Authorization bearer token or the
// X-API-Key header, or "" when neither is present.
func ExtractKey(r *http.Request) string {
	if v := r.Header.Get(AuthorizationHeader); v != "" {
		scheme, token, ok := strings.Cut(v, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(APIKeyHeader))
}

// FailureReason maps a validation error to a short metric label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingKey):
		return "missing"
	case errors.Is(err, ErrKeyDisabled):
		return "disabled"
	default:
		return "invalid"
	}
}

type contextKey struct{}

// WithClient returns a context carrying client.
func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, contextKey{}, client)
}

// ClientFromContext returns the authenticated client, if any.
func ClientFromContext(ctx context.Context) (Client, bool) {
	client, ok := ctx.Value(contextKey{}).(Client)
	return client, ok
}
