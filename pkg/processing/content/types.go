package content

// ContentType is the coarse purpose of a query.
type ContentType string

// Content types, listed in detection priority order.
const (
	ContentTypeImage       ContentType = "image"
	ContentTypeCode        ContentType = "code"
	ContentTypeMath        ContentType = "math"
	ContentTypeAnalysis    ContentType = "analysis"
	ContentTypeCreative    ContentType = "creative"
	ContentTypeTranslation ContentType = "translation"
	ContentTypeReasoning   ContentType = "reasoning"
	ContentTypeText        ContentType = "text"
)

// Complexity is the size tier of a query.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// Sentiment is the tone of a query.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Urgency is how time-sensitive a query claims to be.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Attachment kinds derived from file MIME types.
const (
	AttachmentImage    = "image"
	AttachmentDocument = "document"
	AttachmentAudio    = "audio"
	AttachmentVideo    = "video"
)

// ValidContentType reports whether t is a known content type.
func ValidContentType(t ContentType) bool {
	switch t {
	case ContentTypeImage, ContentTypeCode, ContentTypeMath, ContentTypeAnalysis,
		ContentTypeCreative, ContentTypeTranslation, ContentTypeReasoning, ContentTypeText:
		return true
	}
	return false
}

// ValidComplexity reports whether c is a known complexity tier.
func ValidComplexity(c Complexity) bool {
	return c == ComplexitySimple || c == ComplexityMedium || c == ComplexityComplex
}

// ValidSentiment reports whether s is a known sentiment.
func ValidSentiment(s Sentiment) bool {
	return s == SentimentPositive || s == SentimentNegative || s == SentimentNeutral
}

// ValidUrgency reports whether u is a known urgency level.
func ValidUrgency(u Urgency) bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

// ValidAttachmentKind reports whether k is a known attachment kind.
func ValidAttachmentKind(k string) bool {
	switch k {
	case AttachmentImage, AttachmentDocument, AttachmentAudio, AttachmentVideo:
		return true
	}
	return false
}

// FileMeta describes an attached file. Only metadata is inspected; file
// contents are never read.
type FileMeta struct {
	// Type is the MIME type (e.g., "image/png").
	Type string `json:"type" yaml:"type"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// Name is the original file name.
	Name string `json:"name" yaml:"name"`
}

// QueryAnalysis is the structured view of a single query. It is computed per
// request and never persisted.
type QueryAnalysis struct {
	// Length is the query length in characters (runes).
	Length int `json:"length"`

	// WordCount is the number of whitespace-separated words.
	WordCount int `json:"word_count"`

	// EstimatedTokens is ceil(WordCount × 1.3).
	EstimatedTokens int `json:"estimated_tokens"`

	// Keywords are the lowercase content words of the query, in first-seen order.
	Keywords []string `json:"keywords"`

	Complexity  Complexity  `json:"complexity"`
	ContentType ContentType `json:"content_type"`

	// Languages are programming and natural languages named in the query.
	Languages []string `json:"languages"`

	Sentiment Sentiment `json:"sentiment"`
	Urgency   Urgency   `json:"urgency"`

	// Confidence is a heuristic score in [0,1], not a probability.
	Confidence float64 `json:"confidence"`

	HasFiles     bool `json:"has_files"`
	HasImages    bool `json:"has_images"`
	HasDocuments bool `json:"has_documents"`
	HasAudio     bool `json:"has_audio"`
	HasVideo     bool `json:"has_video"`

	FileCount     int   `json:"file_count"`
	TotalFileSize int64 `json:"total_file_size"`
}

// AttachmentKinds returns the kinds of attached files, in a fixed order.
func (a *QueryAnalysis) AttachmentKinds() []string {
	var kinds []string
	if a.HasImages {
		kinds = append(kinds, AttachmentImage)
	}
	if a.HasDocuments {
		kinds = append(kinds, AttachmentDocument)
	}
	if a.HasAudio {
		kinds = append(kinds, AttachmentAudio)
	}
	if a.HasVideo {
		kinds = append(kinds, AttachmentVideo)
	}
	return kinds
}
