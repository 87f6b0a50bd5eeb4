package routing

import (
	"fmt"

	"mercator-hq/switchyard/pkg/models"
	"mercator-hq/switchyard/pkg/processing/content"
	"mercator-hq/switchyard/pkg/processing/costs"
)

// Branch identifies which step of the routing procedure chose the model.
type Branch string

const (
	// BranchPreference means the caller named a registered model.
	BranchPreference Branch = "preference"

	// BranchRule means a routing rule matched.
	BranchRule Branch = "rule"

	// BranchFallback means no rule matched and the default model was used.
	BranchFallback Branch = "fallback"
)

// Reasoning strings reported on decisions.
const (
	ReasonPreference = "user preference"
	ReasonFallback   = "general purpose fallback"
	reasonRuleFormat = "matched rule: %s"
)

// Decision is the outcome of routing a single query.
type Decision struct {
	// Model is the selected model.
	Model models.ModelDescriptor `json:"model"`

	// Reasoning explains the selection in one line.
	Reasoning string `json:"reasoning"`

	// EstimatedCost is the USD cost estimate for the selected model.
	EstimatedCost float64 `json:"estimated_cost"`

	// Cost is the full cost breakdown behind EstimatedCost.
	Cost costs.CostEstimate `json:"cost"`

	// Confidence is 1.0 for a user preference, the rule's confidence for a
	// rule match, or the configured fallback confidence.
	Confidence float64 `json:"confidence"`

	// Alternatives are up to three other suitable models, cheapest first.
	Alternatives []models.ModelDescriptor `json:"alternatives"`

	// Branch records which routing step made the selection.
	Branch Branch `json:"branch"`

	// RuleID is the matched rule, empty unless Branch is BranchRule.
	RuleID string `json:"rule_id,omitempty"`

	// PreferenceIgnored is set when the caller named a model that is not
	// registered. Such preferences are ignored and routing proceeds normally.
	PreferenceIgnored bool `json:"preference_ignored,omitempty"`

	// Analysis is the query analysis the decision was computed from.
	Analysis content.QueryAnalysis `json:"analysis"`
}

// Summary returns the one-line context attached to generated responses.
func (d *Decision) Summary() string {
	name := d.Model.Name
	if name == "" {
		name = d.Model.ID
	}
	return fmt.Sprintf("Generated by %s | Model Reasoning: %s", name, d.Reasoning)
}

// AlternativeIDs returns the IDs of the alternative models.
func (d *Decision) AlternativeIDs() []string {
	ids := make([]string, len(d.Alternatives))
	for i, m := range d.Alternatives {
		ids[i] = m.ID
	}
	return ids
}
