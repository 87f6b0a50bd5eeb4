package tokens

import (
	"math"
	"strings"
)

// DefaultTokensPerWord is the average number of tokens per English word.
const DefaultTokensPerWord = 1.3

// roundingSlack absorbs floating point error such as 10 × 1.3 = 13.000000000000002.
const roundingSlack = 1e-9

// Estimator estimates token counts for text.
// Implementations must be deterministic and safe for concurrent use.
type Estimator interface {
	// EstimateText estimates tokens for a single text string.
	EstimateText(text string) int

	// EstimateWords estimates tokens for a known word count.
	EstimateWords(words int) int
}

// WordEstimator implements word-based token estimation.
type WordEstimator struct {
	tokensPerWord float64
}

// NewWordEstimator creates an estimator with the given tokens-per-word ratio.
// Non-positive ratios fall back to DefaultTokensPerWord.
func NewWordEstimator(tokensPerWord float64) *WordEstimator {
	if tokensPerWord <= 0 {
		tokensPerWord = DefaultTokensPerWord
	}
	return &WordEstimator{tokensPerWord: tokensPerWord}
}

// EstimateText estimates tokens for text by counting whitespace-separated words.
func (e *WordEstimator) EstimateText(text string) int {
	return e.EstimateWords(CountWords(text))
}

// EstimateWords returns ceil(words × ratio). Negative counts yield 0.
func (e *WordEstimator) EstimateWords(words int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words)*e.tokensPerWord - roundingSlack))
}

// TokensPerWord returns the configured ratio.
func (e *WordEstimator) TokensPerWord() float64 {
	return e.tokensPerWord
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
