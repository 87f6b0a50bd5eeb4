// Package costs provides cost estimation for routed queries.
//
// Every model carries USD rates per 1000 input and output tokens. Before a
// request is sent only the input size is known, so the output size is
// assumed to be a fixed fraction of it:
//
//	input  = tokens
//	output = tokens × 0.5
//	cost   = input/1000 × rateIn + output/1000 × rateOut
//
// The ratio is configurable (routing.output_ratio). Estimates are never
// negative, deterministic, and monotonically non-decreasing in tokens.
//
// # Usage
//
//	calculator := costs.NewCalculator(costs.DefaultOutputRatio)
//
//	// Estimate cost for an unsent request
//	est := calculator.Estimate(model, analysis.EstimatedTokens)
//	fmt.Printf("Estimated cost: $%.6f\n", est.TotalCost)
//
//	// Price actual usage reported by the provider
//	actual := calculator.EstimateActual(model, 812, 240)
package costs
