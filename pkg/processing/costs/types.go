package costs

// CurrencyUSD is the only currency model rates are expressed in.
const CurrencyUSD = "USD"

// CostEstimate contains a cost calculation in USD.
type CostEstimate struct {
	// Model is the model ID the estimate was priced against.
	Model string `json:"model"`

	// Provider is the provider serving the model.
	Provider string `json:"provider"`

	// InputTokens is the number of input (prompt) tokens priced.
	InputTokens int `json:"input_tokens"`

	// OutputTokens is the number of output tokens priced, rounded for display.
	// The cost is computed from the unrounded value.
	OutputTokens int `json:"output_tokens"`

	// InputCost is the cost for input tokens in USD.
	InputCost float64 `json:"input_cost"`

	// OutputCost is the cost for output tokens in USD.
	OutputCost float64 `json:"output_cost"`

	// TotalCost is InputCost + OutputCost.
	TotalCost float64 `json:"total_cost"`

	// Currency is always CurrencyUSD.
	Currency string `json:"currency"`
}

// TokenUsage contains token counts reported by a provider after a call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}
