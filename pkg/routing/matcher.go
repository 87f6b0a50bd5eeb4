package routing

import "mercator-hq/switchyard/pkg/processing/content"

// Match evaluates rules in priority order against an analysis and returns the
// first match. Evaluation is an AND over each rule's present conditions;
// matches are never scored against each other.
//
// If the analysis reports image attachments and the vision override is
// enabled, the first rule whose target model supports vision matches
// regardless of its conditions.
//
// Match is deterministic: the same rules and analysis always yield the same
// result.
func Match(rules *RuleSet, analysis *content.QueryAnalysis) (*Rule, bool) {
	if rules == nil || analysis == nil {
		return nil, false
	}
	return rules.Match(analysis)
}
