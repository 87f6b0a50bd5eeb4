package models

// Output modalities a model can produce.
const (
	// OutputText is the default modality for chat and completion models.
	OutputText = "text"

	// OutputImage marks image generators that cannot answer text queries.
	OutputImage = "image"

	// OutputTranscript marks speech-to-text models that only accept audio.
	OutputTranscript = "transcript"
)

// ModelDescriptor describes a single routable model: who serves it, what it
// costs, and what it can do. Descriptors are values and never mutated after
// the registry is built.
type ModelDescriptor struct {
	// ID is the registry identifier (e.g., "gpt-4-turbo"). Unique per registry.
	ID string `json:"id" yaml:"id"`

	// Name is the human readable display name.
	Name string `json:"name" yaml:"name"`

	// Provider is the provider tag (openai, anthropic, google, ...).
	Provider string `json:"provider" yaml:"provider"`

	// APIModel is the identifier sent to the provider API.
	APIModel string `json:"api_model" yaml:"api_model"`

	// CostPer1KInput is the USD cost per 1000 input tokens.
	CostPer1KInput float64 `json:"cost_per_1k_input" yaml:"cost_per_1k_input"`

	// CostPer1KOutput is the USD cost per 1000 output tokens.
	CostPer1KOutput float64 `json:"cost_per_1k_output" yaml:"cost_per_1k_output"`

	// MaxTokens is the maximum number of output tokens.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	SupportsVision    bool `json:"supports_vision" yaml:"supports_vision"`
	SupportsImageGen  bool `json:"supports_image_gen" yaml:"supports_image_gen"`
	SupportsAudio     bool `json:"supports_audio" yaml:"supports_audio"`
	SupportsStreaming bool `json:"supports_streaming" yaml:"supports_streaming"`

	// Output is the modality the model produces. Empty means OutputText.
	Output string `json:"output,omitempty" yaml:"output"`

	// Strengths and Weaknesses are free-text tags surfaced to callers.
	Strengths  []string `json:"strengths,omitempty" yaml:"strengths"`
	Weaknesses []string `json:"weaknesses,omitempty" yaml:"weaknesses"`
}

// OutputModality returns the produced modality, defaulting to OutputText.
func (m *ModelDescriptor) OutputModality() string {
	if m.Output == "" {
		return OutputText
	}
	return m.Output
}

// ProducesText reports whether the model answers with text.
func (m *ModelDescriptor) ProducesText() bool {
	return m.OutputModality() == OutputText
}
