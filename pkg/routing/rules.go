package routing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"mercator-hq/switchyard/pkg/models"
	"mercator-hq/switchyard/pkg/processing/content"
)

// Rule maps a set of conditions to a target model.
type Rule struct {
	// ID is the unique rule identifier (e.g., "coding-simple").
	ID string `json:"id" yaml:"id"`

	// Name is the human readable label used in decision reasoning.
	Name string `json:"name" yaml:"name"`

	// Conditions are ANDed together; absent conditions are wildcards.
	Conditions Conditions `json:"conditions" yaml:"conditions"`

	// TargetModel is the registry ID selected when the rule matches.
	TargetModel string `json:"target_model" yaml:"target_model"`

	// Priority orders rules; higher priorities are evaluated first.
	Priority int `json:"priority" yaml:"priority"`

	// Confidence is reported on decisions made by this rule. Range [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// compiledRule is a validated rule with its predicates resolved.
type compiledRule struct {
	rule       Rule
	predicates []Condition

	// targetVision reports whether the target model accepts images.
	targetVision bool
}

// RuleSet is an immutable, priority-ordered list of validated rules.
type RuleSet struct {
	rules          []compiledRule
	visionOverride bool
}

// RuleSetOption configures a RuleSet.
type RuleSetOption func(*RuleSet)

// WithVisionOverride enables or disables the vision override: when image
// files are attached, a rule whose target model supports vision matches
// regardless of its conditions. Enabled by default.
func WithVisionOverride(enabled bool) RuleSetOption {
	return func(rs *RuleSet) {
		rs.visionOverride = enabled
	}
}

// NewRuleSet validates rules against the registry and sorts them by priority
// descending. Rules with equal priority keep their definition order.
//
// Returns a *ConfigurationError when the registry is nil, a rule has no ID, shares an ID with
// another rule, has a confidence outside [0,1], targets a model missing from
// the registry, or carries an invalid condition.
func NewRuleSet(rules []Rule, registry *models.Registry, opts ...RuleSetOption) (*RuleSet, error) {
	if registry == nil {
		return nil, &ConfigurationError{Component: "rule", ID: "registry", Reason: "is required"}
	}

	rs := &RuleSet{
		rules:          make([]compiledRule, 0, len(rules)),
		visionOverride: true,
	}
	for _, opt := range opts {
		opt(rs)
	}

	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r.ID) == "" {
			return nil, ruleError(r.ID, "id", "is required")
		}
		if _, dup := seen[r.ID]; dup {
			return nil, ruleError(r.ID, "id", "is defined more than once")
		}
		seen[r.ID] = struct{}{}

		if r.Confidence < 0 || r.Confidence > 1 {
			return nil, ruleError(r.ID, "confidence", fmt.Sprintf("%v must be within [0,1]", r.Confidence))
		}

		target, ok := registry.Get(r.TargetModel)
		if !ok {
			return nil, ruleError(r.ID, "target_model", fmt.Sprintf("references unknown model %q", r.TargetModel))
		}

		predicates, err := r.Conditions.Compile()
		if err != nil {
			return nil, &ConfigurationError{Component: "rule", ID: r.ID, Field: "conditions", Err: err}
		}

		if r.Name == "" {
			r.Name = r.ID
		}
		r.Conditions = r.Conditions.clone()

		rs.rules = append(rs.rules, compiledRule{
			rule:         r,
			predicates:   predicates,
			targetVision: target.SupportsVision,
		})
	}

	slices.SortStableFunc(rs.rules, func(a, b compiledRule) int {
		return cmp.Compare(b.rule.Priority, a.rule.Priority)
	})

	return rs, nil
}

// Rules returns the rules in evaluation order. The slice is a copy.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	for i, cr := range rs.rules {
		out[i] = cr.rule
		out[i].Conditions = cr.rule.Conditions.clone()
	}
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// VisionOverride reports whether the vision override is enabled.
func (rs *RuleSet) VisionOverride() bool {
	return rs.visionOverride
}

// Match returns the first rule, in priority order, whose conditions all hold.
func (rs *RuleSet) Match(analysis *content.QueryAnalysis) (*Rule, bool) {
	for i := range rs.rules {
		cr := &rs.rules[i]
		if rs.visionOverride && analysis.HasImages && cr.targetVision {
			r := cr.rule
			return &r, true
		}
		if All(cr.predicates, analysis) {
			r := cr.rule
			return &r, true
		}
	}
	return nil, false
}

func (c Conditions) clone() Conditions {
	out := c
	out.Keywords = slices.Clone(c.Keywords)
	out.Languages = slices.Clone(c.Languages)
	out.Attachments = slices.Clone(c.Attachments)
	if c.QueryLength != nil {
		r := *c.QueryLength
		out.QueryLength = &r
	}
	return out
}
