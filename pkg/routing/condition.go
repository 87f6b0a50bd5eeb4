package routing

import (
	"fmt"
	"slices"
	"strings"

	"mercator-hq/switchyard/pkg/processing/content"
)

// ConditionKind names a condition type.
type ConditionKind string

const (
	KindKeywords    ConditionKind = "keywords"
	KindQueryLength ConditionKind = "query_length"
	KindMinWords    ConditionKind = "min_words"
	KindComplexity  ConditionKind = "complexity"
	KindContentType ConditionKind = "content_type"
	KindLanguages   ConditionKind = "languages"
	KindSentiment   ConditionKind = "sentiment"
	KindUrgency     ConditionKind = "urgency"
	KindAttachments ConditionKind = "attachments"
)

// Condition is a single predicate over a query analysis. A rule matches when
// all of its conditions evaluate to true. New condition kinds only need to
// implement this interface and be produced by Conditions.Compile.
type Condition interface {
	// Evaluate reports whether the analysis satisfies the condition.
	Evaluate(analysis *content.QueryAnalysis) bool

	// Kind returns the condition type.
	Kind() ConditionKind
}

// LengthRange bounds the query length in characters. Zero means unbounded.
type LengthRange struct {
	Min int `json:"min,omitempty" yaml:"min"`
	Max int `json:"max,omitempty" yaml:"max"`
}

// Conditions is the declarative form of a rule's predicates, as written in
// catalog files. Absent fields are wildcards.
type Conditions struct {
	Keywords    []string            `json:"keywords,omitempty" yaml:"keywords"`
	QueryLength *LengthRange        `json:"query_length,omitempty" yaml:"query_length"`
	MinWords    int                 `json:"min_words,omitempty" yaml:"min_words"`
	Complexity  content.Complexity  `json:"complexity,omitempty" yaml:"complexity"`
	ContentType content.ContentType `json:"content_type,omitempty" yaml:"content_type"`
	Languages   []string            `json:"languages,omitempty" yaml:"languages"`
	Sentiment   content.Sentiment   `json:"sentiment,omitempty" yaml:"sentiment"`
	Urgency     content.Urgency     `json:"urgency,omitempty" yaml:"urgency"`

	// Attachments lists attachment kinds (image, document, audio, video);
	// the condition holds when any of them is attached.
	Attachments []string `json:"attachments,omitempty" yaml:"attachments"`
}

// Compile validates the declarative conditions and returns the predicate
// list in a fixed evaluation order. An empty list matches every query.
func (c Conditions) Compile() ([]Condition, error) {
	var out []Condition

	if c.Keywords != nil {
		kw := make(KeywordCondition, 0, len(c.Keywords))
		for _, k := range c.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				return nil, fmt.Errorf("keywords: empty keyword")
			}
			kw = append(kw, k)
		}
		if len(kw) == 0 {
			return nil, fmt.Errorf("keywords: list is empty")
		}
		out = append(out, kw)
	}

	if r := c.QueryLength; r != nil {
		if r.Min < 0 || r.Max < 0 {
			return nil, fmt.Errorf("query_length: bounds must be non-negative")
		}
		if r.Max > 0 && r.Min > r.Max {
			return nil, fmt.Errorf("query_length: min %d exceeds max %d", r.Min, r.Max)
		}
		if r.Min > 0 || r.Max > 0 {
			out = append(out, LengthCondition(*r))
		}
	}

	if c.MinWords < 0 {
		return nil, fmt.Errorf("min_words: must be non-negative")
	}
	if c.MinWords > 0 {
		out = append(out, WordCountCondition(c.MinWords))
	}

	if c.Complexity != "" {
		if !content.ValidComplexity(c.Complexity) {
			return nil, fmt.Errorf("complexity: unknown value %q", c.Complexity)
		}
		out = append(out, ComplexityCondition(c.Complexity))
	}

	if c.ContentType != "" {
		if !content.ValidContentType(c.ContentType) {
			return nil, fmt.Errorf("content_type: unknown value %q", c.ContentType)
		}
		out = append(out, ContentTypeCondition(c.ContentType))
	}

	if c.Languages != nil {
		langs := make(LanguageCondition, 0, len(c.Languages))
		for _, l := range c.Languages {
			l = strings.ToLower(strings.TrimSpace(l))
			if l == "" {
				return nil, fmt.Errorf("languages: empty language")
			}
			langs = append(langs, l)
		}
		if len(langs) == 0 {
			return nil, fmt.Errorf("languages: list is empty")
		}
		out = append(out, langs)
	}

	if c.Sentiment != "" {
		if !content.ValidSentiment(c.Sentiment) {
			return nil, fmt.Errorf("sentiment: unknown value %q", c.Sentiment)
		}
		out = append(out, SentimentCondition(c.Sentiment))
	}

	if c.Urgency != "" {
		if !content.ValidUrgency(c.Urgency) {
			return nil, fmt.Errorf("urgency: unknown value %q", c.Urgency)
		}
		out = append(out, UrgencyCondition(c.Urgency))
	}

	if c.Attachments != nil {
		kinds := make(AttachmentCondition, 0, len(c.Attachments))
		for _, k := range c.Attachments {
			k = strings.ToLower(strings.TrimSpace(k))
			if !content.ValidAttachmentKind(k) {
				return nil, fmt.Errorf("attachments: unknown kind %q", k)
			}
			kinds = append(kinds, k)
		}
		if len(kinds) == 0 {
			return nil, fmt.Errorf("attachments: list is empty")
		}
		out = append(out, kinds)
	}

	return out, nil
}

// KeywordCondition holds when any rule keyword is a substring of an analysis
// keyword or the other way round, so "code" matches "codebase" and "decode".
type KeywordCondition []string

func (c KeywordCondition) Kind() ConditionKind { return KindKeywords }

func (c KeywordCondition) Evaluate(a *content.QueryAnalysis) bool {
	for _, want := range c {
		for _, got := range a.Keywords {
			if strings.Contains(got, want) || strings.Contains(want, got) {
				return true
			}
		}
	}
	return false
}

// LengthCondition bounds the query length in characters, inclusive.
type LengthCondition LengthRange

func (c LengthCondition) Kind() ConditionKind { return KindQueryLength }

func (c LengthCondition) Evaluate(a *content.QueryAnalysis) bool {
	if c.Min > 0 && a.Length < c.Min {
		return false
	}
	if c.Max > 0 && a.Length > c.Max {
		return false
	}
	return true
}

// WordCountCondition requires at least this many whitespace-separated words.
type WordCountCondition int

func (c WordCountCondition) Kind() ConditionKind { return KindMinWords }

func (c WordCountCondition) Evaluate(a *content.QueryAnalysis) bool {
	return a.WordCount >= int(c)
}

// ComplexityCondition requires an exact complexity tier.
type ComplexityCondition content.Complexity

func (c ComplexityCondition) Kind() ConditionKind { return KindComplexity }

func (c ComplexityCondition) Evaluate(a *content.QueryAnalysis) bool {
	return a.Complexity == content.Complexity(c)
}

// ContentTypeCondition requires an exact content type.
type ContentTypeCondition content.ContentType

func (c ContentTypeCondition) Kind() ConditionKind { return KindContentType }

func (c ContentTypeCondition) Evaluate(a *content.QueryAnalysis) bool {
	return a.ContentType == content.ContentType(c)
}

// LanguageCondition holds when any listed language was detected.
type LanguageCondition []string

func (c LanguageCondition) Kind() ConditionKind { return KindLanguages }

func (c LanguageCondition) Evaluate(a *content.QueryAnalysis) bool {
	for _, l := range c {
		if slices.Contains(a.Languages, l) {
			return true
		}
	}
	return false
}

// SentimentCondition requires an exact sentiment.
type SentimentCondition content.Sentiment

func (c SentimentCondition) Kind() ConditionKind { return KindSentiment }

func (c SentimentCondition) Evaluate(a *content.QueryAnalysis) bool {
	return a.Sentiment == content.Sentiment(c)
}

// UrgencyCondition requires an exact urgency level.
type UrgencyCondition content.Urgency

func (c UrgencyCondition) Kind() ConditionKind { return KindUrgency }

func (c UrgencyCondition) Evaluate(a *content.QueryAnalysis) bool {
	return a.Urgency == content.Urgency(c)
}

// AttachmentCondition holds when any listed attachment kind is present.
type AttachmentCondition []string

func (c AttachmentCondition) Kind() ConditionKind { return KindAttachments }

func (c AttachmentCondition) Evaluate(a *content.QueryAnalysis) bool {
	kinds := a.AttachmentKinds()
	for _, k := range c {
		if slices.Contains(kinds, k) {
			return true
		}
	}
	return false
}

// All combines conditions with AND, short-circuiting on the first failure.
func All(conditions []Condition, a *content.QueryAnalysis) bool {
	for _, c := range conditions {
		if !c.Evaluate(a) {
			return false
		}
	}
	return true
}
