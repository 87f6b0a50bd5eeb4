package content

import (
	"reflect"
	"strings"
	"testing"
)

// analysisProse is a >500 character paragraph whose only family hit is "analyze".
var analysisProse = strings.Repeat("Please analyze the quarterly sales figures for our northern region. ", 9)

func TestAnalyzer_ContentType(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	tests := []struct {
		name  string
		query string
		want  ContentType
	}{
		{name: "fibonacci function", query: "Write a Python function to calculate fibonacci numbers", want: ContentTypeCode},
		{name: "image beats code", query: "Generate a function that sorts a list", want: ContentTypeImage},
		{name: "draw request", query: "Draw a cat wearing a hat", want: ContentTypeImage},
		{name: "arithmetic expression", query: "What is 12 * 7?", want: ContentTypeMath},
		{name: "math keyword", query: "Solve this equation for x", want: ContentTypeMath},
		{name: "analysis prose", query: analysisProse, want: ContentTypeAnalysis},
		{name: "creative", query: "Compose a short poem about autumn", want: ContentTypeCreative},
		{name: "translation by keyword", query: "Translate this paragraph", want: ContentTypeTranslation},
		{name: "translation by language name", query: "How do you say hello in Japanese", want: ContentTypeTranslation},
		{name: "reasoning", query: "Why does the sky appear blue?", want: ContentTypeReasoning},
		{name: "reasoning phrase", query: "Give me the pros and cons of remote work", want: ContentTypeReasoning},
		{name: "plain text", query: "Hello there", want: ContentTypeText},
		{name: "empty", query: "", want: ContentTypeText},
		{name: "substring does not count", query: "Tell me about imagery in films", want: ContentTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Analyze(tt.query, nil)
			if got.ContentType != tt.want {
				t.Errorf("ContentType = %q, want %q", got.ContentType, tt.want)
			}
		})
	}
}

func TestAnalyzer_Complexity(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	tests := []struct {
		name  string
		query string
		want  Complexity
	}{
		{name: "empty", query: "", want: ComplexitySimple},
		{name: "short", query: "What time is it in Tokyo?", want: ComplexitySimple},
		{name: "many short words", query: strings.Repeat("word ", 25), want: ComplexityMedium},
		{name: "long prose", query: analysisProse, want: ComplexityComplex},
		{name: "exactly 100 characters", query: strings.Repeat("a", 100), want: ComplexitySimple},
		{name: "101 characters", query: strings.Repeat("a", 101), want: ComplexityMedium},
		{name: "over 100 words within 500 characters", query: strings.Repeat("ok ", 101), want: ComplexityMedium},
		{name: "exactly 500 characters", query: strings.Repeat("a", 500), want: ComplexityMedium},
		{name: "501 characters", query: strings.Repeat("a", 501), want: ComplexityComplex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Analyze(tt.query, nil)
			if got.Complexity != tt.want {
				t.Errorf("Complexity = %q, want %q (length %d, words %d)",
					got.Complexity, tt.want, got.Length, got.WordCount)
			}
		})
	}
}

func TestAnalyzer_Fibonacci(t *testing.T) {
	got := NewAnalyzer(nil).Analyze("Write a Python function to calculate fibonacci numbers", nil)

	wantKeywords := []string{"write", "python", "function", "calculate", "fibonacci", "numbers"}
	if !reflect.DeepEqual(got.Keywords, wantKeywords) {
		t.Errorf("Keywords = %v, want %v", got.Keywords, wantKeywords)
	}
	if got.WordCount != 8 {
		t.Errorf("WordCount = %d, want 8", got.WordCount)
	}
	if got.EstimatedTokens != 11 {
		t.Errorf("EstimatedTokens = %d, want 11", got.EstimatedTokens)
	}
	if got.Complexity != ComplexitySimple {
		t.Errorf("Complexity = %q, want simple", got.Complexity)
	}
	if !reflect.DeepEqual(got.Languages, []string{"python"}) {
		t.Errorf("Languages = %v, want [python]", got.Languages)
	}
	// 0.5 + min(6*0.05, 0.2) + 0.1 for a typed query
	if got.Confidence < 0.799 || got.Confidence > 0.801 {
		t.Errorf("Confidence = %v, want 0.8", got.Confidence)
	}
}

func TestAnalyzer_EmptyQuery(t *testing.T) {
	got := NewAnalyzer(nil).Analyze("", nil)

	if got.Complexity != ComplexitySimple || got.ContentType != ContentTypeText {
		t.Errorf("got %q/%q, want simple/text", got.Complexity, got.ContentType)
	}
	if got.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", got.Confidence)
	}
	if got.HasFiles || got.HasImages || got.HasDocuments || got.HasAudio || got.HasVideo {
		t.Error("file flags should be zero for an empty request")
	}
	if got.Keywords == nil || len(got.Keywords) != 0 {
		t.Errorf("Keywords = %#v, want empty non-nil slice", got.Keywords)
	}
	if got.Sentiment != SentimentNeutral || got.Urgency != UrgencyLow {
		t.Errorf("Sentiment/Urgency = %q/%q, want neutral/low", got.Sentiment, got.Urgency)
	}
}

func TestAnalyzer_Keywords(t *testing.T) {
	got := NewAnalyzer(nil).Analyze("Python, python and PYTHON: is it a good fit for the job?", nil)

	want := []string{"python", "good", "fit", "job"}
	if !reflect.DeepEqual(got.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", got.Keywords, want)
	}
}

func TestAnalyzer_SentimentAndUrgency(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	tests := []struct {
		query         string
		wantSentiment Sentiment
		wantUrgency   Urgency
	}{
		{query: "This is great, thanks!", wantSentiment: SentimentPositive, wantUrgency: UrgencyLow},
		{query: "The build is broken and the output is wrong", wantSentiment: SentimentNegative, wantUrgency: UrgencyLow},
		{query: "Good news and bad news", wantSentiment: SentimentNeutral, wantUrgency: UrgencyLow},
		{query: "I need this fixed ASAP", wantSentiment: SentimentNeutral, wantUrgency: UrgencyHigh},
		{query: "Please reply right away", wantSentiment: SentimentNeutral, wantUrgency: UrgencyHigh},
		{query: "Can you answer soon? It's important", wantSentiment: SentimentNeutral, wantUrgency: UrgencyMedium},
		{query: "urgent and important", wantSentiment: SentimentNeutral, wantUrgency: UrgencyHigh},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := analyzer.Analyze(tt.query, nil)
			if got.Sentiment != tt.wantSentiment {
				t.Errorf("Sentiment = %q, want %q", got.Sentiment, tt.wantSentiment)
			}
			if got.Urgency != tt.wantUrgency {
				t.Errorf("Urgency = %q, want %q", got.Urgency, tt.wantUrgency)
			}
		})
	}
}

func TestAnalyzer_Languages(t *testing.T) {
	got := NewAnalyzer(nil).Analyze("Port this Rust snippet to Golang and explain it in French, or C++", nil)

	want := []string{"golang", "rust", "c++", "french"}
	if !reflect.DeepEqual(got.Languages, want) {
		t.Errorf("Languages = %v, want %v", got.Languages, want)
	}
}

func TestAnalyzer_Files(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	tests := []struct {
		name      string
		files     []FileMeta
		images    bool
		documents bool
		audio     bool
		video     bool
		kinds     []string
	}{
		{name: "none"},
		{name: "png", files: []FileMeta{{Type: "image/png", Size: 10}}, images: true, kinds: []string{"image"}},
		{name: "upper case mime", files: []FileMeta{{Type: "IMAGE/JPEG"}}, images: true, kinds: []string{"image"}},
		{name: "pdf", files: []FileMeta{{Type: "application/pdf"}}, documents: true, kinds: []string{"document"}},
		{name: "plain text with charset", files: []FileMeta{{Type: "text/plain; charset=utf-8"}}, documents: true, kinds: []string{"document"}},
		{name: "word document", files: []FileMeta{{Type: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}}, documents: true, kinds: []string{"document"}},
		{name: "audio", files: []FileMeta{{Type: "audio/mpeg"}}, audio: true, kinds: []string{"audio"}},
		{name: "video", files: []FileMeta{{Type: "video/mp4"}}, video: true, kinds: []string{"video"}},
		{name: "unknown binary", files: []FileMeta{{Type: "application/octet-stream"}}},
		{
			name:   "mixed",
			files:  []FileMeta{{Type: "video/mp4"}, {Type: "image/gif"}, {Type: "application/msword"}},
			images: true, documents: true, video: true,
			kinds: []string{"image", "document", "video"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Analyze("see attached", tt.files)
			if got.HasFiles != (len(tt.files) > 0) {
				t.Errorf("HasFiles = %v", got.HasFiles)
			}
			if got.FileCount != len(tt.files) {
				t.Errorf("FileCount = %d, want %d", got.FileCount, len(tt.files))
			}
			if got.HasImages != tt.images || got.HasDocuments != tt.documents ||
				got.HasAudio != tt.audio || got.HasVideo != tt.video {
				t.Errorf("flags = images:%v documents:%v audio:%v video:%v",
					got.HasImages, got.HasDocuments, got.HasAudio, got.HasVideo)
			}
			if !reflect.DeepEqual(got.AttachmentKinds(), tt.kinds) {
				t.Errorf("AttachmentKinds() = %v, want %v", got.AttachmentKinds(), tt.kinds)
			}
		})
	}
}

func TestAnalyzer_FileSize(t *testing.T) {
	got := NewAnalyzer(nil).Analyze("", []FileMeta{{Type: "image/png", Size: 100}, {Type: "text/csv", Size: 50}, {Type: "x/y", Size: -1}})
	if got.TotalFileSize != 150 {
		t.Errorf("TotalFileSize = %d, want 150", got.TotalFileSize)
	}
}

func TestAnalyzer_ConfidenceBounds(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	queries := []string{
		"",
		"   ",
		"!!!???",
		"\x00\xff\xfe",
		"日本語のテキスト",
		analysisProse,
		strings.Repeat("generate image photo picture code function algorithm ", 200),
	}

	for _, q := range queries {
		got := analyzer.Analyze(q, nil)
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Confidence(%q) = %v, out of [0,1]", q, got.Confidence)
		}
	}
}

func TestAnalyzer_Deterministic(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	files := []FileMeta{{Type: "image/png", Size: 1024, Name: "diagram.png"}}

	first := analyzer.Analyze(analysisProse, files)
	for i := 0; i < 10; i++ {
		if got := analyzer.Analyze(analysisProse, files); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\n got %+v\nwant %+v", i, got, first)
		}
	}
}
