package routing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/switchyard/pkg/processing/content"
	"mercator-hq/switchyard/pkg/telemetry/logging"
	"mercator-hq/switchyard/pkg/telemetry/tracing"
)

// RouterProvider returns the router currently in effect. The catalog
// manager implements it; a fixed router can be wrapped with StaticRouter.
type RouterProvider interface {
	Router() *Router
}

// StaticRouter is a RouterProvider for a router that never changes.
type StaticRouter struct {
	R *Router
}

// Router returns the wrapped router.
func (s StaticRouter) Router() *Router { return s.R }

// MetricsRecorder receives routing measurements.
type MetricsRecorder interface {
	RecordDecision(branch, model, provider, ruleID string, confidence, cost float64, duration time.Duration)
	RecordIgnoredPreference()
	RecordAnalysis(contentType, complexity string, duration time.Duration)
}

// DecisionRecorder persists decision summaries. Implementations must not
// block the caller and must not store query text.
type DecisionRecorder interface {
	Record(ctx context.Context, requestID string, d *Decision) error
}

// Service wraps a router with tracing, metrics, statistics, journaling and
// logging. The router itself stays pure; everything observable happens here.
type Service struct {
	routers    RouterProvider
	tracer     trace.Tracer
	metrics    MetricsRecorder
	journal    DecisionRecorder
	stats      *AtomicRoutingStats
	logger     *slog.Logger
	redactor   *logging.Redactor
	previewLen int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTracer sets the tracer used for analyze and route spans.
func WithTracer(t trace.Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithJournal sets the decision journal.
func WithJournal(j DecisionRecorder) ServiceOption {
	return func(s *Service) { s.journal = j }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithQueryPreview logs up to n characters of each query at debug level,
// passed through r. n = 0 disables previews.
func WithQueryPreview(r *logging.Redactor, n int) ServiceOption {
	return func(s *Service) {
		s.redactor = r
		s.previewLen = n
	}
}

// NewService creates a routing service.
func NewService(routers RouterProvider, opts ...ServiceOption) *Service {
	s := &Service{
		routers: routers,
		tracer:  noop.NewTracerProvider().Tracer("switchyard/routing"),
		stats:   NewAtomicRoutingStats(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "routing.service")
	return s
}

// Router returns the router currently in effect.
func (s *Service) Router() *Router {
	return s.routers.Router()
}

// Stats returns the routing statistics tracker.
func (s *Service) Stats() *AtomicRoutingStats {
	return s.stats
}

// Analyze analyzes a query without routing it.
func (s *Service) Analyze(ctx context.Context, query string, files []content.FileMeta) content.QueryAnalysis {
	_, span := s.tracer.Start(ctx, "routing.Analyze")
	defer span.End()

	start := time.Now()
	analysis := s.routers.Router().Analyze(query, files)
	elapsed := time.Since(start)

	setAnalysisAttributes(span, &analysis)
	if s.metrics != nil {
		s.metrics.RecordAnalysis(string(analysis.ContentType), string(analysis.Complexity), elapsed)
	}
	return analysis
}

// Route routes a query. The context carries telemetry only; routing itself
// cannot be cancelled and never fails.
func (s *Service) Route(ctx context.Context, requestID, query, preference string, files []content.FileMeta) Decision {
	ctx, span := s.tracer.Start(ctx, "routing.Route",
		tracing.NewAttributeBuilder().WithRequest(requestID).Build())
	defer span.End()

	router := s.routers.Router()

	start := time.Now()
	_, analyzeSpan := s.tracer.Start(ctx, "routing.Analyze")
	analysis := router.Analyze(query, files)
	setAnalysisAttributes(analyzeSpan, &analysis)
	analyzeSpan.End()
	analyzed := time.Now()

	d := router.Decide(analysis, preference)
	elapsed := time.Since(start)

	tracing.NewAttributeBuilder().
		WithDecision(string(d.Branch), d.Model.ID, d.Model.Provider, d.RuleID, d.Confidence).
		WithCost(d.EstimatedCost).
		WithPreference(d.PreferenceIgnored).
		WithAlternatives(d.AlternativeIDs()).
		Apply(span)

	s.stats.Record(&d)
	if s.metrics != nil {
		s.metrics.RecordAnalysis(string(analysis.ContentType), string(analysis.Complexity), analyzed.Sub(start))
		s.metrics.RecordDecision(string(d.Branch), d.Model.ID, d.Model.Provider, d.RuleID,
			d.Confidence, d.EstimatedCost, elapsed)
		if d.PreferenceIgnored {
			s.metrics.RecordIgnoredPreference()
		}
	}

	if d.PreferenceIgnored {
		s.logger.DebugContext(ctx, "ignoring unknown model preference",
			"preference", preference,
		)
	}

	if s.journal != nil {
		if err := s.journal.Record(ctx, requestID, &d); err != nil {
			s.stats.IncrementJournalErrors()
			tracing.SetErrorAttributes(span, err, "journal")
			s.logger.WarnContext(ctx, "failed to journal routing decision",
				"error", err,
			)
		}
	}

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		args := []any{
			"branch", d.Branch,
			"model", d.Model.ID,
			"rule_id", d.RuleID,
			"confidence", d.Confidence,
			"estimated_cost", d.EstimatedCost,
			"content_type", analysis.ContentType,
			"complexity", analysis.Complexity,
			"duration", elapsed,
		}
		if s.previewLen > 0 {
			args = append(args, "query_preview", s.redactor.Preview(query, s.previewLen))
		}
		s.logger.DebugContext(ctx, "routing decision", args...)
	}

	return d
}

func setAnalysisAttributes(span trace.Span, a *content.QueryAnalysis) {
	tracing.NewAttributeBuilder().
		WithAnalysis(a.Length, a.WordCount, a.EstimatedTokens, a.FileCount,
			string(a.ContentType), string(a.Complexity)).
		Apply(span)
}
