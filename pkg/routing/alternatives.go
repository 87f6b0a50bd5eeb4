package routing

import (
	"cmp"
	"slices"

	"mercator-hq/switchyard/pkg/models"
	"mercator-hq/switchyard/pkg/processing/content"
	"mercator-hq/switchyard/pkg/processing/costs"
)

// MaxAlternatives is the upper bound on alternatives per decision.
const MaxAlternatives = 3

// RankAlternatives returns up to limit models that could also serve the
// query, cheapest first. The selected model is always excluded. Models with
// equal estimated cost keep registry order. A limit outside [1,
// MaxAlternatives] is treated as MaxAlternatives.
//
// Compatibility filter:
//   - image content: image generators or vision models
//   - any other content: text-producing models
//   - image attachments: the model must also support vision
func RankAlternatives(registry *models.Registry, selected string, analysis *content.QueryAnalysis, calc *costs.Calculator, limit int) []models.ModelDescriptor {
	if limit <= 0 || limit > MaxAlternatives {
		limit = MaxAlternatives
	}

	type candidate struct {
		model models.ModelDescriptor
		cost  float64
	}

	var candidates []candidate
	for _, m := range registry.List() {
		if m.ID == selected || !compatible(&m, analysis) {
			continue
		}
		candidates = append(candidates, candidate{
			model: m,
			cost:  calc.EstimateCost(m, analysis.EstimatedTokens),
		})
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(a.cost, b.cost)
	})

	out := make([]models.ModelDescriptor, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, c.model)
	}
	return out
}

func compatible(m *models.ModelDescriptor, a *content.QueryAnalysis) bool {
	if a.ContentType == content.ContentTypeImage {
		if !m.SupportsImageGen && !m.SupportsVision {
			return false
		}
	} else if !m.ProducesText() {
		return false
	}

	if a.HasImages && !m.SupportsVision {
		return false
	}
	return true
}
