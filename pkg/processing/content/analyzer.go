package content

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"mercator-hq/switchyard/pkg/processing/tokens"
)

// Complexity thresholds. A query is simple while it stays within both simple
// limits and complex once it is longer than ComplexMinLength characters.
const (
	SimpleMaxLength  = 100
	SimpleMaxWords   = 20
	ComplexMinLength = 500
)

// Confidence scoring constants.
const (
	baseConfidence       = 0.5
	keywordConfidence    = 0.05
	maxKeywordConfidence = 0.2
	typedConfidence      = 0.1
	complexConfidence    = 0.1
)

// minKeywordLength is the minimum rune length of an extracted keyword, exclusive.
const minKeywordLength = 2

// Analyzer turns a raw query and file metadata into a QueryAnalysis.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	estimator tokens.Estimator
}

// NewAnalyzer creates a new query analyzer. A nil estimator uses the default
// word-based estimator.
func NewAnalyzer(estimator tokens.Estimator) *Analyzer {
	if estimator == nil {
		estimator = tokens.NewWordEstimator(tokens.DefaultTokensPerWord)
	}
	return &Analyzer{estimator: estimator}
}

// Analyze classifies a query. It never fails: empty or unparseable input
// yields a simple, text-typed analysis with confidence 0.5.
func (a *Analyzer) Analyze(query string, files []FileMeta) QueryAnalysis {
	lower := strings.ToLower(query)
	normalized := strings.Join(strings.Fields(lower), " ")
	letterRuns := strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) })
	words := wordSet(letterRuns...)

	analysis := QueryAnalysis{
		Length:    utf8.RuneCountInString(query),
		WordCount: tokens.CountWords(query),
		Keywords:  extractKeywords(letterRuns),
		Languages: detectLanguages(words, normalized),
	}
	analysis.EstimatedTokens = a.estimator.EstimateWords(analysis.WordCount)
	analysis.Complexity = classifyComplexity(analysis.Length, analysis.WordCount)
	analysis.ContentType = detectContentType(words, normalized)
	analysis.Sentiment = detectSentiment(letterRuns)
	analysis.Urgency = detectUrgency(words, normalized)

	flags := classifyFiles(files)
	analysis.HasFiles = flags.count > 0
	analysis.HasImages = flags.images
	analysis.HasDocuments = flags.documents
	analysis.HasAudio = flags.audio
	analysis.HasVideo = flags.video
	analysis.FileCount = flags.count
	analysis.TotalFileSize = flags.totalSize

	analysis.Confidence = scoreConfidence(&analysis)

	return analysis
}

// extractKeywords returns the letter runs longer than minKeywordLength that
// are not stop words, de-duplicated in first-seen order.
func extractKeywords(letterRuns []string) []string {
	keywords := make([]string, 0, len(letterRuns))
	seen := make(map[string]struct{}, len(letterRuns))

	for _, w := range letterRuns {
		if utf8.RuneCountInString(w) <= minKeywordLength {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}

	return keywords
}

func classifyComplexity(length, words int) Complexity {
	switch {
	case length > ComplexMinLength:
		return ComplexityComplex
	case length > SimpleMaxLength || words > SimpleMaxWords:
		return ComplexityMedium
	default:
		return ComplexitySimple
	}
}

// detectContentType walks contentFamilies in priority order.
func detectContentType(words map[string]struct{}, normalized string) ContentType {
	for _, f := range contentFamilies {
		if f.matches(words, normalized) {
			return f.contentType
		}
	}
	return ContentTypeText
}

func detectLanguages(words map[string]struct{}, normalized string) []string {
	languages := make([]string, 0)
	for _, catalogue := range [][]string{programmingLanguages, naturalLanguages} {
		for _, lang := range catalogue {
			if contains(lang, words, normalized) {
				languages = append(languages, lang)
			}
		}
	}
	return languages
}

// detectSentiment compares positive and negative word occurrences.
func detectSentiment(letterRuns []string) Sentiment {
	positive, negative := 0, 0
	for _, w := range letterRuns {
		if _, ok := positiveWords[w]; ok {
			positive++
		}
		if _, ok := negativeWords[w]; ok {
			negative++
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func detectUrgency(words map[string]struct{}, normalized string) Urgency {
	switch {
	case highUrgency.matches(words, normalized):
		return UrgencyHigh
	case mediumUrgency.matches(words, normalized):
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

func scoreConfidence(a *QueryAnalysis) float64 {
	confidence := baseConfidence + min(float64(len(a.Keywords))*keywordConfidence, maxKeywordConfidence)
	if a.ContentType != ContentTypeText {
		confidence += typedConfidence
	}
	if a.Complexity == ComplexityComplex {
		confidence += complexConfidence
	}
	return max(0, min(confidence, 1))
}
