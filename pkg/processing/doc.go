// Package processing holds the query analysis building blocks used by the
// router:
//
//   - tokens: word-based token estimation
//   - content: content type, complexity, sentiment, urgency and language
//     detection, plus attachment metadata
//   - costs: per-model cost estimates from catalog pricing
//
// The packages are pure and safe for concurrent use.
package processing
