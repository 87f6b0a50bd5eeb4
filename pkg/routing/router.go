package routing

import (
	"fmt"
	"strings"

	"mercator-hq/switchyard/pkg/models"
	"mercator-hq/switchyard/pkg/processing/content"
	"mercator-hq/switchyard/pkg/processing/costs"
	"mercator-hq/switchyard/pkg/processing/tokens"
)

// Router defaults.
const (
	DefaultModelID            = "gpt-3.5-turbo"
	DefaultFallbackConfidence = 0.7

	// PreferenceAuto asks the router to choose, same as no preference.
	PreferenceAuto = "auto"
)

// Options configures a Router. Start from DefaultOptions; zero values for
// DefaultModel, MaxAlternatives, OutputRatio and TokensPerWord are replaced by
// their defaults. A zero FallbackConfidence is reported as 0.
type Options struct {
	// DefaultModel is selected when no rule matches.
	DefaultModel string

	// FallbackConfidence is reported on fallback decisions. Range [0,1].
	FallbackConfidence float64

	// MaxAlternatives bounds alternatives per decision, at most 3.
	MaxAlternatives int

	// VisionOverride enables the rule matcher's vision override.
	VisionOverride bool

	// OutputRatio is the assumed output-to-input token ratio for costing.
	OutputRatio float64

	// TokensPerWord is the token estimation ratio.
	TokensPerWord float64
}

// DefaultOptions returns the default router options.
func DefaultOptions() Options {
	return Options{
		DefaultModel:       DefaultModelID,
		FallbackConfidence: DefaultFallbackConfidence,
		MaxAlternatives:    MaxAlternatives,
		VisionOverride:     true,
		OutputRatio:        costs.DefaultOutputRatio,
		TokensPerWord:      tokens.DefaultTokensPerWord,
	}
}

// Router chooses a model for each query. It is built once from a validated
// registry and rule set and is immutable afterwards, so Route may be called
// concurrently without locking.
//
// Example usage:
//
//	registry, _ := models.NewRegistry(models.DefaultModels())
//	router, err := routing.NewRouter(registry, routing.DefaultRules(), routing.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//
//	decision := router.Route("Write a Python function to reverse a list", "", nil)
//	fmt.Println(decision.Model.ID, decision.Reasoning)
type Router struct {
	registry     *models.Registry
	rules        *RuleSet
	analyzer     *content.Analyzer
	calculator   *costs.Calculator
	defaultModel models.ModelDescriptor
	opts         Options
}

// NewRouter validates the catalog and builds a router. It returns a
// *ConfigurationError if a rule or the default model references an unknown
// model, or if an option is out of range.
func NewRouter(registry *models.Registry, rules []Rule, opts Options) (*Router, error) {
	if registry == nil {
		return nil, &ConfigurationError{Component: "router", ID: "registry", Reason: "is required"}
	}

	if opts.DefaultModel == "" {
		opts.DefaultModel = DefaultModelID
	}
	if opts.MaxAlternatives == 0 {
		opts.MaxAlternatives = MaxAlternatives
	}

	if opts.FallbackConfidence < 0 || opts.FallbackConfidence > 1 {
		return nil, &ConfigurationError{Component: "router", ID: "fallback_confidence",
			Reason: fmt.Sprintf("%v must be within [0,1]", opts.FallbackConfidence)}
	}
	if opts.MaxAlternatives < 1 || opts.MaxAlternatives > MaxAlternatives {
		return nil, &ConfigurationError{Component: "router", ID: "max_alternatives",
			Reason: fmt.Sprintf("%d must be within [1,%d]", opts.MaxAlternatives, MaxAlternatives)}
	}

	defaultModel, ok := registry.Get(opts.DefaultModel)
	if !ok {
		return nil, &ConfigurationError{Component: "router", ID: "default_model",
			Reason: fmt.Sprintf("references unknown model %q", opts.DefaultModel)}
	}

	rs, err := NewRuleSet(rules, registry, WithVisionOverride(opts.VisionOverride))
	if err != nil {
		return nil, err
	}

	calculator := costs.NewCalculator(opts.OutputRatio)
	estimator := tokens.NewWordEstimator(opts.TokensPerWord)
	opts.OutputRatio = calculator.OutputRatio()
	opts.TokensPerWord = estimator.TokensPerWord()

	return &Router{
		registry:     registry,
		rules:        rs,
		analyzer:     content.NewAnalyzer(estimator),
		calculator:   calculator,
		defaultModel: defaultModel,
		opts:         opts,
	}, nil
}

// Analyze returns the query analysis used for routing.
func (r *Router) Analyze(query string, files []content.FileMeta) content.QueryAnalysis {
	return r.analyzer.Analyze(query, files)
}

// Route analyzes the query and selects a model. It never fails.
//
// Selection order:
//  1. a registered, non-"auto" preference is used as-is (confidence 1.0)
//  2. the first matching rule in priority order
//  3. the default model (fallback confidence)
//
// Unknown preferences are ignored and flagged with PreferenceIgnored.
func (r *Router) Route(query, preference string, files []content.FileMeta) Decision {
	return r.Decide(r.Analyze(query, files), preference)
}

// Decide selects a model for an existing analysis.
func (r *Router) Decide(analysis content.QueryAnalysis, preference string) Decision {
	d := Decision{Analysis: analysis}

	preference = strings.TrimSpace(preference)
	if preference != "" && !strings.EqualFold(preference, PreferenceAuto) {
		if m, ok := r.registry.Get(preference); ok {
			d.Model = m
			d.Reasoning = ReasonPreference
			d.Confidence = 1.0
			d.Branch = BranchPreference
			return r.complete(d)
		}
		d.PreferenceIgnored = true
	}

	if rule, ok := r.rules.Match(&d.Analysis); ok {
		// Targets were validated by NewRuleSet.
		m, _ := r.registry.Get(rule.TargetModel)
		d.Model = m
		d.Reasoning = fmt.Sprintf(reasonRuleFormat, rule.Name)
		d.Confidence = rule.Confidence
		d.Branch = BranchRule
		d.RuleID = rule.ID
		return r.complete(d)
	}

	d.Model = r.defaultModel
	d.Reasoning = ReasonFallback
	d.Confidence = r.opts.FallbackConfidence
	d.Branch = BranchFallback
	return r.complete(d)
}

// complete fills in the cost estimate and alternatives.
func (r *Router) complete(d Decision) Decision {
	d.Cost = r.calculator.Estimate(d.Model, d.Analysis.EstimatedTokens)
	d.EstimatedCost = d.Cost.TotalCost
	d.Alternatives = RankAlternatives(r.registry, d.Model.ID, &d.Analysis, r.calculator, r.opts.MaxAlternatives)
	return d
}

// ListModels returns the registered models in registry order.
func (r *Router) ListModels() []models.ModelDescriptor {
	return r.registry.List()
}

// ListRules returns the rules in evaluation order.
func (r *Router) ListRules() []Rule {
	return r.rules.Rules()
}

// Registry returns the model registry.
func (r *Router) Registry() *models.Registry {
	return r.registry
}

// RuleSet returns the validated rule set.
func (r *Router) RuleSet() *RuleSet {
	return r.rules
}

// Calculator returns the cost calculator.
func (r *Router) Calculator() *costs.Calculator {
	return r.calculator
}

// Options returns the effective options.
func (r *Router) Options() Options {
	return r.opts
}
