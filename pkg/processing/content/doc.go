// Package content provides query analysis for routing decisions.
//
// The analyzer is a pure function of the query text and attached file
// metadata. It performs no I/O, reads no clock and uses no randomness, so the
// same input always produces the same QueryAnalysis.
//
// # Content Type Detection
//
// Keyword families are checked in a fixed priority order and the first
// family with a hit decides the content type:
//
//  1. image (generate, create, draw, image, picture, photo, ...)
//  2. code
//  3. math
//  4. analysis
//  5. creative
//  6. translation (including natural-language names)
//  7. reasoning
//
// Queries matching no family are typed "text". The order is a routing policy:
// "generate a function" is an image request, not a code request.
//
// # Complexity
//
//   - simple: at most 100 characters and at most 20 words
//   - complex: more than 500 characters or more than 100 words
//   - medium: everything in between
//
// # Confidence
//
// Confidence starts at 0.5, gains 0.05 per keyword (capped at 0.2), 0.1 for a
// non-text content type and 0.1 for complex queries, and is clamped to [0,1].
// It ranks and informs; it never gates routing.
//
// # Usage
//
//	analyzer := content.NewAnalyzer(nil)
//	analysis := analyzer.Analyze("Write a Python function", nil)
//	// analysis.ContentType == content.ContentTypeCode
package content
