package costs

import (
	"math"

	"mercator-hq/switchyard/pkg/models"
)

// DefaultOutputRatio is the assumed number of output tokens per input token
// when pricing a request that has not been sent yet.
const DefaultOutputRatio = 0.5

// Calculator prices token counts against a model's per-1K rates.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	outputRatio float64
}

// NewCalculator creates a calculator. A non-positive ratio falls back to
// DefaultOutputRatio.
func NewCalculator(outputRatio float64) *Calculator {
	if outputRatio <= 0 || math.IsNaN(outputRatio) || math.IsInf(outputRatio, 0) {
		outputRatio = DefaultOutputRatio
	}
	return &Calculator{outputRatio: outputRatio}
}

// OutputRatio returns the configured output-to-input token ratio.
func (c *Calculator) OutputRatio() float64 {
	return c.outputRatio
}

// Estimate prices an unsent request of the given input token count.
// Output tokens are assumed to be tokens × output ratio. Negative token
// counts are treated as zero, so the result is never negative.
func (c *Calculator) Estimate(model models.ModelDescriptor, tokens int) CostEstimate {
	if tokens < 0 {
		tokens = 0
	}
	output := float64(tokens) * c.outputRatio
	return price(model, float64(tokens), output)
}

// EstimateCost is shorthand for Estimate(model, tokens).TotalCost.
func (c *Calculator) EstimateCost(model models.ModelDescriptor, tokens int) float64 {
	return c.Estimate(model, tokens).TotalCost
}

// EstimateActual prices provider-reported usage.
func (c *Calculator) EstimateActual(model models.ModelDescriptor, inputTokens, outputTokens int) CostEstimate {
	return price(model, float64(max(inputTokens, 0)), float64(max(outputTokens, 0)))
}

// EstimateUsage prices a TokenUsage report.
func (c *Calculator) EstimateUsage(model models.ModelDescriptor, usage TokenUsage) CostEstimate {
	return c.EstimateActual(model, usage.PromptTokens, usage.CompletionTokens)
}

func price(model models.ModelDescriptor, input, output float64) CostEstimate {
	est := CostEstimate{
		Model:        model.ID,
		Provider:     model.Provider,
		InputTokens:  int(input),
		OutputTokens: int(math.Round(output)),
		Currency:     CurrencyUSD,
	}

	est.InputCost = calculateTokenCost(input, model.CostPer1KInput)
	est.OutputCost = calculateTokenCost(output, model.CostPer1KOutput)
	est.TotalCost = est.InputCost + est.OutputCost

	return est
}

// calculateTokenCost calculates the cost for a given number of tokens.
// costPer1K is the cost per 1000 tokens in USD.
func calculateTokenCost(tokens, costPer1K float64) float64 {
	if tokens <= 0 || costPer1K <= 0 {
		return 0.0
	}

	return (tokens / 1000.0) * costPer1K
}
