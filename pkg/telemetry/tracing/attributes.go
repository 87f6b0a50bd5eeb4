package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span Attribute Helpers
//
// Standard attribute keys follow OpenTelemetry semantic conventions (http.*).
// Switchyard keys use the "switchyard.*" namespace:
//   - switchyard.request_id: Request correlation ID
//   - switchyard.query.*: Query analysis results (never the query text)
//   - switchyard.branch, switchyard.model, switchyard.rule_id: The decision
//   - switchyard.cost.*: Estimated cost

// Common attribute keys used throughout the system
const (
	// Request attributes
	AttrRequestID = "switchyard.request_id"

	// Analysis attributes
	AttrQueryLength      = "switchyard.query.length"
	AttrQueryWords       = "switchyard.query.words"
	AttrQueryTokens      = "switchyard.query.tokens"
	AttrQueryContentType = "switchyard.query.content_type"
	AttrQueryComplexity  = "switchyard.query.complexity"
	AttrQueryFiles       = "switchyard.query.files"

	// Decision attributes
	AttrBranch            = "switchyard.branch"
	AttrModel             = "switchyard.model"
	AttrProvider          = "switchyard.provider"
	AttrRuleID            = "switchyard.rule_id"
	AttrConfidence        = "switchyard.confidence"
	AttrPreferenceIgnored = "switchyard.preference_ignored"
	AttrAlternatives      = "switchyard.alternatives"

	// Cost attributes
	AttrCost         = "switchyard.cost.estimated"
	AttrCostCurrency = "switchyard.cost.currency"

	// Catalog attributes
	AttrCatalogSource = "switchyard.catalog.source"
	AttrCatalogModels = "switchyard.catalog.models"
	AttrCatalogRules  = "switchyard.catalog.rules"

	// Error attributes
	AttrErrorType    = "switchyard.error.type"
	AttrErrorMessage = "error.message"
)

// SetErrorAttributes sets error-related attributes on a span.
// This also records the error and sets the span status.
//
// Example:
//
//	SetErrorAttributes(span, err, "journal")
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.SetAttributes(attribute.String(AttrErrorType, errorType))
	SetError(span, err)
}

// AddEvent adds a named event to the span with optional attributes.
//
// Example:
//
//	AddEvent(span, "catalog_reloaded",
//	    attribute.Int(AttrCatalogModels, 12),
//	)
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AttributeBuilder provides a fluent interface for building span attributes.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates a new attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 10),
	}
}

// WithRequest adds the request ID. Empty IDs are skipped.
func (ab *AttributeBuilder) WithRequest(requestID string) *AttributeBuilder {
	if requestID != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrRequestID, requestID))
	}
	return ab
}

// WithAnalysis adds query analysis attributes.
func (ab *AttributeBuilder) WithAnalysis(length, words, tokens, files int, contentType, complexity string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.Int(AttrQueryLength, length),
		attribute.Int(AttrQueryWords, words),
		attribute.Int(AttrQueryTokens, tokens),
		attribute.Int(AttrQueryFiles, files),
		attribute.String(AttrQueryContentType, contentType),
		attribute.String(AttrQueryComplexity, complexity),
	)
	return ab
}

// WithDecision adds the decision branch, selected model and winning rule.
// The rule ID is omitted when empty.
func (ab *AttributeBuilder) WithDecision(branch, model, provider, ruleID string, confidence float64) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrBranch, branch),
		attribute.String(AttrModel, model),
		attribute.String(AttrProvider, provider),
		attribute.Float64(AttrConfidence, confidence),
	)
	if ruleID != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrRuleID, ruleID))
	}
	return ab
}

// WithPreference records whether a model preference was ignored.
func (ab *AttributeBuilder) WithPreference(ignored bool) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.Bool(AttrPreferenceIgnored, ignored))
	return ab
}

// WithAlternatives adds the alternative model IDs in rank order.
func (ab *AttributeBuilder) WithAlternatives(ids []string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.StringSlice(AttrAlternatives, ids))
	return ab
}

// WithCost adds cost attributes.
func (ab *AttributeBuilder) WithCost(cost float64) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.Float64(AttrCost, cost),
		attribute.String(AttrCostCurrency, "USD"),
	)
	return ab
}

// WithCatalog adds catalog attributes.
func (ab *AttributeBuilder) WithCatalog(source string, models, rules int) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrCatalogSource, source),
		attribute.Int(AttrCatalogModels, models),
		attribute.Int(AttrCatalogRules, rules),
	)
	return ab
}

// WithCustom adds a custom attribute.
func (ab *AttributeBuilder) WithCustom(key string, value interface{}) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	default:
		// Fall back to string representation
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the built attributes as a trace.SpanStartOption.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply applies the attributes to a span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
