// Package tokens provides token estimation for routed queries.
//
// Routing decisions are made before any provider is contacted, so the exact
// tokenizer of the eventual model is unknown. The estimator therefore works
// on whitespace-separated words and applies a fixed tokens-per-word ratio:
//
//	tokens = ceil(words × 1.3)
//
// The ratio is a policy constant; callers that price real traffic should use
// the provider-reported usage instead.
//
// # Usage
//
//	estimator := tokens.NewWordEstimator(tokens.DefaultTokensPerWord)
//	n := estimator.EstimateText("Explain the CAP theorem")
//	// n == 6
package tokens
