package models

// DefaultModels returns the built-in model catalog. A new slice is returned
// on every call.
func DefaultModels() []ModelDescriptor {
	return []ModelDescriptor{
		{
			ID:                "gpt-4-turbo",
			Name:              "GPT-4 Turbo",
			Provider:          "openai",
			APIModel:          "gpt-4-turbo-preview",
			CostPer1KInput:    0.01,
			CostPer1KOutput:   0.03,
			MaxTokens:         128000,
			SupportsVision:    true,
			SupportsStreaming: true,
			Strengths:         []string{"complex reasoning", "code generation", "analysis"},
			Weaknesses:        []string{"cost", "latency"},
		},
		{
			ID:                "gpt-4o",
			Name:              "GPT-4o",
			Provider:          "openai",
			APIModel:          "gpt-4o",
			CostPer1KInput:    0.005,
			CostPer1KOutput:   0.015,
			MaxTokens:         128000,
			SupportsVision:    true,
			SupportsAudio:     true,
			SupportsStreaming: true,
			Strengths:         []string{"multimodal", "vision", "fast responses"},
		},
		{
			ID:                "gpt-3.5-turbo",
			Name:              "GPT-3.5 Turbo",
			Provider:          "openai",
			APIModel:          "gpt-3.5-turbo",
			CostPer1KInput:    0.0005,
			CostPer1KOutput:   0.0015,
			MaxTokens:         16385,
			SupportsStreaming: true,
			Strengths:         []string{"general queries", "simple tasks", "fast responses"},
			Weaknesses:        []string{"deep reasoning"},
		},
		{
			ID:                "claude-3-opus",
			Name:              "Claude 3 Opus",
			Provider:          "anthropic",
			APIModel:          "claude-3-opus-20240229",
			CostPer1KInput:    0.015,
			CostPer1KOutput:   0.075,
			MaxTokens:         200000,
			SupportsVision:    true,
			SupportsStreaming: true,
			Strengths:         []string{"complex reasoning", "research", "long context"},
			Weaknesses:        []string{"cost"},
		},
		{
			ID:                "claude-3-sonnet",
			Name:              "Claude 3 Sonnet",
			Provider:          "anthropic",
			APIModel:          "claude-3-sonnet-20240229",
			CostPer1KInput:    0.003,
			CostPer1KOutput:   0.015,
			MaxTokens:         200000,
			SupportsVision:    true,
			SupportsStreaming: true,
			Strengths:         []string{"creative writing", "analysis", "safety"},
		},
		{
			ID:                "claude-3-haiku",
			Name:              "Claude 3 Haiku",
			Provider:          "anthropic",
			APIModel:          "claude-3-haiku-20240307",
			CostPer1KInput:    0.00025,
			CostPer1KOutput:   0.00125,
			MaxTokens:         200000,
			SupportsVision:    true,
			SupportsStreaming: true,
			Strengths:         []string{"simple tasks", "fast responses", "cost-effective"},
		},
		{
			ID:                "gemini-pro",
			Name:              "Gemini Pro",
			Provider:          "google",
			APIModel:          "gemini-pro",
			CostPer1KInput:    0.0005,
			CostPer1KOutput:   0.0015,
			MaxTokens:         32768,
			SupportsStreaming: true,
			Strengths:         []string{"multimodal", "reasoning", "code"},
		},
		{
			ID:                "gemini-pro-vision",
			Name:              "Gemini Pro Vision",
			Provider:          "google",
			APIModel:          "gemini-pro-vision",
			CostPer1KInput:    0.0005,
			CostPer1KOutput:   0.0015,
			MaxTokens:         16384,
			SupportsVision:    true,
			SupportsStreaming: true,
			Strengths:         []string{"image understanding", "document scans"},
		},
		{
			ID:                "mistral-large",
			Name:              "Mistral Large",
			Provider:          "mistral",
			APIModel:          "mistral-large-latest",
			CostPer1KInput:    0.004,
			CostPer1KOutput:   0.012,
			MaxTokens:         32000,
			SupportsStreaming: true,
			Strengths:         []string{"multilingual", "translation", "math"},
		},
		{
			ID:                "command-r",
			Name:              "Command R",
			Provider:          "cohere",
			APIModel:          "command-r",
			CostPer1KInput:    0.0005,
			CostPer1KOutput:   0.0015,
			MaxTokens:         4000,
			SupportsStreaming: true,
			Strengths:         []string{"retrieval", "summaries"},
		},
		{
			ID:               "dall-e-3",
			Name:             "DALL-E 3",
			Provider:         "dalle",
			APIModel:         "dall-e-3",
			CostPer1KInput:   0.04,
			CostPer1KOutput:  0,
			MaxTokens:        4000,
			SupportsImageGen: true,
			Output:           OutputImage,
			Strengths:        []string{"image generation", "prompt adherence"},
		},
		{
			ID:               "stable-diffusion-xl",
			Name:             "Stable Diffusion XL",
			Provider:         "stability",
			APIModel:         "stable-diffusion-xl-1024-v1-0",
			CostPer1KInput:   0.02,
			CostPer1KOutput:  0,
			MaxTokens:        2000,
			SupportsImageGen: true,
			Output:           OutputImage,
			Strengths:        []string{"image generation", "artistic styles"},
		},
		{
			ID:              "whisper-1",
			Name:            "Whisper",
			Provider:        "openai",
			APIModel:        "whisper-1",
			CostPer1KInput:  0.006,
			CostPer1KOutput: 0,
			MaxTokens:       0,
			SupportsAudio:   true,
			Output:          OutputTranscript,
			Strengths:       []string{"speech recognition", "transcription"},
		},
	}
}
