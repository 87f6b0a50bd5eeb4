package costs

import (
	"math"
	"testing"

	"mercator-hq/switchyard/pkg/models"
)

var gpt4 = models.ModelDescriptor{
	ID:              "gpt-4-turbo",
	Provider:        "openai",
	CostPer1KInput:  0.01,
	CostPer1KOutput: 0.03,
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestCalculator_Estimate(t *testing.T) {
	calculator := NewCalculator(DefaultOutputRatio)

	tests := []struct {
		name     string
		tokens   int
		expected float64
	}{
		{name: "zero tokens", tokens: 0, expected: 0},
		{name: "negative tokens clamp to zero", tokens: -100, expected: 0},
		// (1000/1000 * 0.01) + (500/1000 * 0.03) = 0.01 + 0.015
		{name: "one thousand tokens", tokens: 1000, expected: 0.025},
		// (13/1000 * 0.01) + (6.5/1000 * 0.03) = 0.00013 + 0.000195
		{name: "ten words", tokens: 13, expected: 0.000325},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := calculator.Estimate(gpt4, tt.tokens)
			if !almostEqual(est.TotalCost, tt.expected) {
				t.Errorf("TotalCost = %v, want %v", est.TotalCost, tt.expected)
			}
			if est.TotalCost < 0 {
				t.Errorf("TotalCost must never be negative, got %v", est.TotalCost)
			}
			if est.Currency != CurrencyUSD {
				t.Errorf("Currency = %q, want USD", est.Currency)
			}
			if !almostEqual(est.InputCost+est.OutputCost, est.TotalCost) {
				t.Errorf("input + output = %v, total = %v", est.InputCost+est.OutputCost, est.TotalCost)
			}
		})
	}
}

func TestCalculator_Monotonic(t *testing.T) {
	calculator := NewCalculator(DefaultOutputRatio)

	for _, m := range models.DefaultModels() {
		prev := 0.0
		for tokens := 0; tokens <= 5000; tokens += 7 {
			cost := calculator.EstimateCost(m, tokens)
			if cost < prev {
				t.Fatalf("%s: cost decreased at %d tokens (%v < %v)", m.ID, tokens, cost, prev)
			}
			prev = cost
		}
	}
}

func TestCalculator_EstimateActual(t *testing.T) {
	calculator := NewCalculator(DefaultOutputRatio)

	est := calculator.EstimateActual(gpt4, 2000, 1000)
	// (2000/1000 * 0.01) + (1000/1000 * 0.03)
	if !almostEqual(est.TotalCost, 0.05) {
		t.Errorf("TotalCost = %v, want 0.05", est.TotalCost)
	}
	if est.InputTokens != 2000 || est.OutputTokens != 1000 {
		t.Errorf("tokens = %d/%d, want 2000/1000", est.InputTokens, est.OutputTokens)
	}

	usage := calculator.EstimateUsage(gpt4, TokenUsage{PromptTokens: 2000, CompletionTokens: 1000})
	if usage != est {
		t.Errorf("EstimateUsage() = %+v, want %+v", usage, est)
	}

	if got := calculator.EstimateActual(gpt4, -1, -1).TotalCost; got != 0 {
		t.Errorf("negative usage priced at %v, want 0", got)
	}
}

func TestNewCalculator_Ratio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  float64
	}{
		{ratio: 0, want: DefaultOutputRatio},
		{ratio: -1, want: DefaultOutputRatio},
		{ratio: math.NaN(), want: DefaultOutputRatio},
		{ratio: 1.5, want: 1.5},
	}

	for _, tt := range tests {
		if got := NewCalculator(tt.ratio).OutputRatio(); got != tt.want {
			t.Errorf("NewCalculator(%v).OutputRatio() = %v, want %v", tt.ratio, got, tt.want)
		}
	}
}
