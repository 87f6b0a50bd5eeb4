package logging

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"mercator-hq/switchyard/pkg/config"
)

// Redactor masks PII in log values and query previews. Patterns are applied
// in order, built-in patterns first.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternEmail       = "email"
	PatternCreditCard  = "credit_card"
	PatternSSN         = "ssn"
	PatternPhone       = "phone"
	PatternIPv4        = "ipv4"
	PatternPassword    = "password"
)

// defaultPatterns run longest-match first: card numbers before phone numbers,
// phone numbers before SSNs.
var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternAPIKey, `\b(?:sk|pk|rk)-[A-Za-z0-9_-]{8,}`, "[api_key]"},
	{PatternBearerToken, `Bearer\s+[A-Za-z0-9\-._~+/]+=*`, "Bearer [token]"},
	{PatternEmail, `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`, "[email]"},
	{PatternCreditCard, `\b(?:\d[ -]?){12,15}\d\b`, "[card]"},
	{PatternSSN, `\b\d{3}-\d{2}-\d{4}\b`, "[ssn]"},
	{PatternPhone, `(?:\+?1[-.\s]?)?\(?\b\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`, "[phone]"},
	{PatternIPv4, `\b(?:\d{1,3}\.){3}\d{1,3}\b`, "[ip]"},
	{PatternPassword, `(?i)(password|passwd|pwd)\s*[:=]\s*\S+`, "$1=[redacted]"},
}

// NewRedactor creates a Redactor with the built-in patterns followed by any
// custom patterns. Custom patterns that fail to compile are skipped; config
// validation reports them.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}

	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		replacement := p.Replacement
		if replacement == "" {
			replacement = "[" + p.Name + "]"
		}
		r.patterns = append(r.patterns, redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: replacement,
		})
	}

	return r
}

// RedactString redacts PII from a string value.
func (r *Redactor) RedactString(value string) string {
	if r == nil || value == "" {
		return value
	}

	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// Preview returns at most n runes of query, whitespace-collapsed and redacted.
// A nil Redactor previews without redaction. n <= 0 returns "".
func (r *Redactor) Preview(query string, n int) string {
	if n <= 0 {
		return ""
	}

	query = strings.Join(strings.Fields(query), " ")
	query = r.RedactString(query)

	if utf8.RuneCountInString(query) <= n {
		return query
	}
	runes := []rune(query)
	return string(runes[:n]) + "…"
}

// isSensitiveKey reports whether an attribute key names secret material.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "secret", "token",
		"api_key", "apikey", "authorization",
		"private_key", "credit_card",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}

// maskValue hides a sensitive value, keeping a short prefix for debugging.
func maskValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "***"
	}
	return v[:4] + "***"
}
