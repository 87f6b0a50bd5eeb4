package routing

import "mercator-hq/switchyard/pkg/processing/content"

// DefaultRules returns the built-in routing rules, in definition order.
// A new slice is returned on every call.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "audio-transcription",
			Name:        "Audio Transcription",
			Conditions:  Conditions{Attachments: []string{content.AttachmentAudio}},
			TargetModel: "whisper-1",
			Priority:    12,
			Confidence:  0.95,
		},
		{
			ID:          "vision-attachments",
			Name:        "Image Understanding",
			Conditions:  Conditions{Attachments: []string{content.AttachmentImage}},
			TargetModel: "gpt-4o",
			Priority:    12,
			Confidence:  0.9,
		},
		{
			ID:   "image-generation",
			Name: "Image Generation",
			Conditions: Conditions{
				Keywords:    []string{"image", "picture", "photo", "draw", "illustration", "logo", "sketch", "painting"},
				ContentType: content.ContentTypeImage,
			},
			TargetModel: "dall-e-3",
			Priority:    11,
			Confidence:  0.9,
		},
		{
			ID:   "coding-complex",
			Name: "Complex Coding Tasks",
			Conditions: Conditions{
				Keywords:    []string{"function", "class", "algorithm", "debug", "refactor", "optimize"},
				QueryLength: &LengthRange{Min: 100},
				Complexity:  content.ComplexityComplex,
			},
			TargetModel: "gpt-4-turbo",
			Priority:    10,
			Confidence:  0.9,
		},
		{
			ID:   "coding-simple",
			Name: "Simple Coding Tasks",
			Conditions: Conditions{
				Keywords:    []string{"code", "function", "javascript", "python", "html", "css"},
				QueryLength: &LengthRange{Max: 100},
				Complexity:  content.ComplexitySimple,
			},
			TargetModel: "gpt-3.5-turbo",
			Priority:    5,
			Confidence:  0.85,
		},
		{
			ID:   "creative-writing",
			Name: "Creative Writing",
			Conditions: Conditions{
				Keywords:   []string{"write", "story", "creative", "poem", "article", "blog", "content"},
				Complexity: content.ComplexityMedium,
			},
			TargetModel: "claude-3-sonnet",
			Priority:    8,
			Confidence:  0.85,
		},
		{
			ID:   "analysis-long",
			Name: "Long Document Analysis",
			Conditions: Conditions{
				Keywords:    []string{"analyze", "review", "summarize", "explain"},
				QueryLength: &LengthRange{Min: 500},
			},
			TargetModel: "claude-3-sonnet",
			Priority:    9,
			Confidence:  0.9,
		},
		{
			ID:   "complex-reasoning",
			Name: "Complex Reasoning",
			Conditions: Conditions{
				ContentType: content.ContentTypeReasoning,
				Complexity:  content.ComplexityComplex,
			},
			TargetModel: "claude-3-opus",
			Priority:    9,
			Confidence:  0.85,
		},
		{
			ID:          "math-problems",
			Name:        "Math Problems",
			Conditions:  Conditions{ContentType: content.ContentTypeMath},
			TargetModel: "gpt-4-turbo",
			Priority:    7,
			Confidence:  0.8,
		},
		{
			ID:          "translation",
			Name:        "Translation",
			Conditions:  Conditions{ContentType: content.ContentTypeTranslation},
			TargetModel: "mistral-large",
			Priority:    6,
			Confidence:  0.8,
		},
		{
			ID:   "urgent-quick",
			Name: "Urgent Quick Answers",
			Conditions: Conditions{
				Urgency:    content.UrgencyHigh,
				Complexity: content.ComplexitySimple,
			},
			TargetModel: "claude-3-haiku",
			Priority:    4,
			Confidence:  0.7,
		},
		{
			ID:   "simple-queries",
			Name: "Simple Queries",
			Conditions: Conditions{
				QueryLength: &LengthRange{Max: 50},
				MinWords:    1,
				Complexity:  content.ComplexitySimple,
			},
			TargetModel: "claude-3-haiku",
			Priority:    1,
			Confidence:  0.75,
		},
	}
}
