package content

import (
	"regexp"
	"strings"
)

// terms is a vocabulary matched against a query. Single words are looked up
// in the query's word set; entries containing a space or punctuation are
// matched as phrases against the normalized query text.
type terms struct {
	words   map[string]struct{}
	phrases []string
	pattern *regexp.Regexp
}

// family is a keyword family that votes for a content type.
type family struct {
	contentType ContentType
	terms
}

// contentFamilies is evaluated in order and the first family with a hit wins.
// Reordering this list changes routing results.
var contentFamilies = []*family{
	newFamily(ContentTypeImage, []string{
		"generate", "create", "draw", "image", "picture", "photo",
		"illustration", "logo", "sketch", "painting",
	}, nil),
	newFamily(ContentTypeCode, []string{
		"code", "coding", "function", "class", "method", "algorithm", "debug",
		"refactor", "compile", "compiler", "program", "programming", "script",
		"bug", "api", "endpoint", "regex", "stack trace", "unit test",
		"python", "javascript", "typescript", "java", "golang", "rust", "ruby",
		"php", "swift", "kotlin", "sql", "html", "css", "bash",
	}, nil),
	newFamily(ContentTypeMath, []string{
		"math", "calculate", "calculation", "equation", "solve", "integral",
		"derivative", "algebra", "geometry", "calculus", "probability",
		"statistics", "theorem", "proof", "formula", "matrix", "fraction",
	}, regexp.MustCompile(`\d+(\.\d+)?\s*[-+*/^=]\s*\d+`)),
	newFamily(ContentTypeAnalysis, []string{
		"analyze", "analyse", "analysis", "review", "summarize", "summarise",
		"summary", "explain", "compare", "evaluate", "assess", "research",
		"insights", "breakdown",
	}, nil),
	newFamily(ContentTypeCreative, []string{
		"write", "story", "creative", "poem", "poetry", "article", "blog",
		"content", "novel", "lyrics", "essay", "fiction", "narrative", "slogan",
	}, nil),
	newFamily(ContentTypeTranslation, append([]string{
		"translate", "translation", "translator", "localize", "localise",
	}, naturalLanguages...), nil),
	newFamily(ContentTypeReasoning, []string{
		"why", "reason", "reasoning", "logic", "logical", "deduce", "infer",
		"puzzle", "riddle", "strategy", "decide", "tradeoff", "tradeoffs",
		"step by step", "pros and cons",
	}, nil),
}

// programmingLanguages and naturalLanguages are reported as language hints
// in this order.
var programmingLanguages = []string{
	"python", "javascript", "typescript", "java", "golang", "rust", "ruby",
	"php", "swift", "kotlin", "scala", "haskell", "sql", "html", "css", "bash",
	"c++", "c#",
}

var naturalLanguages = []string{
	"english", "spanish", "french", "german", "italian", "portuguese", "dutch",
	"russian", "chinese", "mandarin", "japanese", "korean", "arabic", "hindi",
	"turkish", "polish", "swedish", "greek", "hebrew", "vietnamese",
}

var (
	positiveWords = wordSet(
		"good", "great", "excellent", "amazing", "wonderful", "awesome",
		"happy", "love", "best", "thank", "thanks", "perfect", "nice",
		"helpful", "appreciate", "glad",
	)
	negativeWords = wordSet(
		"bad", "terrible", "awful", "horrible", "worst", "hate", "angry",
		"sad", "wrong", "fail", "failed", "failing", "broken", "annoying",
		"frustrated", "frustrating", "disappointed", "useless", "poor",
	)
)

var (
	highUrgency = newTerms([]string{
		"urgent", "urgently", "asap", "immediately", "emergency", "critical",
		"right away", "right now",
	}, nil)
	mediumUrgency = newTerms([]string{
		"soon", "quick", "quickly", "fast", "priority", "important",
		"deadline", "today", "shortly",
	}, nil)
)

// stopWords are excluded from extracted keywords.
var stopWords = wordSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"her", "was", "one", "our", "out", "has", "had", "how", "its", "may",
	"who", "did", "get", "him", "his", "she", "too", "use", "way", "let",
	"own", "see", "say", "yes", "now", "new", "old", "off", "why", "per",
	"that", "this", "with", "from", "they", "were", "been", "have",
	"their", "said", "each", "which", "what", "when", "where", "will",
	"more", "very", "know", "just", "first", "into", "over", "think",
	"also", "make", "time", "only", "work", "life", "after", "before",
	"some", "than", "then", "them", "these", "those", "there", "would",
	"could", "should", "about", "your", "please", "like", "want", "need",
	"does", "doing", "being", "here", "such", "much", "many",
)

func newFamily(ct ContentType, vocabulary []string, pattern *regexp.Regexp) *family {
	return &family{contentType: ct, terms: newTerms(vocabulary, pattern)}
}

func newTerms(vocabulary []string, pattern *regexp.Regexp) terms {
	t := terms{
		words:   make(map[string]struct{}, len(vocabulary)),
		pattern: pattern,
	}
	for _, term := range vocabulary {
		if isSingleWord(term) {
			t.words[term] = struct{}{}
		} else {
			t.phrases = append(t.phrases, term)
		}
	}
	return t
}

// matches reports whether any term occurs in the query.
func (t *terms) matches(words map[string]struct{}, normalized string) bool {
	for w := range t.words {
		if _, ok := words[w]; ok {
			return true
		}
	}
	for _, p := range t.phrases {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	return t.pattern != nil && t.pattern.MatchString(normalized)
}

// contains reports whether a single catalogue entry occurs in the query.
func contains(term string, words map[string]struct{}, normalized string) bool {
	if isSingleWord(term) {
		_, ok := words[term]
		return ok
	}
	return strings.Contains(normalized, term)
}

func isSingleWord(term string) bool {
	for _, r := range term {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return term != ""
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
