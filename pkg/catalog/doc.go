// Package catalog loads the models and routing rules a router is built
// from, and keeps the active router current.
//
// A catalog is either built in (Default) or read from a YAML file:
//
//	default_model: gpt-3.5-turbo
//	models:
//	  - id: gpt-4-turbo
//	    provider: openai
//	    cost_per_1k_input: 0.01
//	    cost_per_1k_output: 0.03
//	    supports_vision: true
//	rules:
//	  - id: coding-simple
//	    target_model: gpt-3.5-turbo
//	    priority: 5
//	    confidence: 0.85
//	    conditions:
//	      keywords: [code, function, python]
//	      query_length: {max: 100}
//	      complexity: simple
//
// Manager holds the active *routing.Router. Reload and Watch replace it as a
// whole; a catalog that fails validation never replaces a good one.
package catalog
