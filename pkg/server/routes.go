package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/telemetry/health"
	"mercator-hq/switchyard/pkg/telemetry/tracing"
)

// setupRoutes builds the chi router and middleware chain.
func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	// Recovery is outermost so it also covers the other middleware.
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(RequestIDMiddleware)
	if s.deps.Tracer != nil {
		r.Use(tracing.HTTPMiddleware(s.deps.Tracer))
	}
	r.Use(LoggingMiddleware(s.logger))
	if s.deps.Metrics != nil {
		r.Use(MetricsMiddleware(s.deps.Metrics))
	}
	if s.config.CORS.Enabled {
		r.Use(cors.Handler(corsOptions(s.config.CORS)))
	}

	maxBody := s.config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = config.DefaultMaxBodyBytes
	}

	h := &handlers{
		service:    s.deps.Service,
		catalog:    s.deps.Catalog,
		journal:    s.deps.Journal,
		queryLimit: s.queryLimit,
		maxBody:    maxBody,
		logger:     s.logger,
	}

	// Probes
	r.Get("/health", s.deps.Health.LivenessHandler())
	r.Get("/ready", s.deps.Health.ReadinessHandler())
	r.Get("/version", health.VersionHandler(s.deps.Version))
	if s.deps.MetricsHandler != nil {
		path := s.deps.MetricsPath
		if path == "" {
			path = config.DefaultPrometheusPath
		}
		r.Method(http.MethodGet, path, s.deps.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		if s.keys != nil {
			r.Use(s.authMiddleware())
		}
		if s.limiter != nil {
			r.Use(s.rateLimitMiddleware())
		}

		r.Post("/route", h.route)
		r.Post("/analyze", h.analyze)

		r.Get("/models", h.listModels)
		r.Get("/models/{id}", h.getModel)
		r.Get("/rules", h.listRules)
		r.Get("/stats", h.stats)

		r.Get("/decisions", h.listDecisions)
		r.Get("/decisions/summary", h.summarizeDecisions)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errTypeNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errTypeMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	})

	return r
}

// corsOptions converts CORS configuration into go-chi/cors options.
func corsOptions(c config.CORSConfig) cors.Options {
	return cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   c.AllowedMethods,
		AllowedHeaders:   c.AllowedHeaders,
		ExposedHeaders:   c.ExposedHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	}
}
