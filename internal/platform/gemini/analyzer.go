package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/neoclass/neoclass-api/internal/analysis"
	"github.com/neoclass/neoclass-api/internal/config"
	"github.com/neoclass/neoclass-api/internal/domain"
)

// analysisPrompt instructs the model to digitize a photographed study note
// into the structured JSON shape defined by responseSchema.
const analysisPrompt = `You are a study assistant. The attached image is a photo of a student's handwritten or printed study notes. Analyze it and respond with a single JSON object with these fields:
- "title": a short title for the note
- "subject": the school subject the note belongs to (e.g. "Biology", "History")
- "summary": a concise summary of the note's content
- "originalText": the full text transcribed from the image
- "cues": an array of short recall cues covering the key ideas
- "quiz": an array of objects with "question" and "answer" fields for self-testing
- "tags": an array of short topic tags

Respond with JSON only. If a field cannot be determined, use an empty string or empty array.`

// GeminiAnalyzer implements the analysis.Analyzer interface using Google's
// Gemini API to extract structured content from note images.
type GeminiAnalyzer struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// Ensure GeminiAnalyzer implements analysis.Analyzer interface
var _ analysis.Analyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer creates a new GeminiAnalyzer with the provided
// dependencies. It validates the LLM configuration and initializes the
// Gemini client.
func NewGeminiAnalyzer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiAnalyzer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", analysis.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", analysis.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			analysis.ErrInvalidConfig, err)
	}

	return &GeminiAnalyzer{
		logger: logger.With(slog.String("component", "gemini_analyzer")),
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Analyze implements analysis.Analyzer.Analyze
// It sends the image and the analysis prompt to the Gemini API, parses the
// JSON response, and sanitizes it so every field is usable.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, imageData []byte, mimeType string) (*analysis.NoteAnalysis, error) {
	if len(imageData) == 0 {
		return nil, analysis.ErrEmptyImage
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	a.logger.InfoContext(ctx, "analyzing note image",
		slog.Int("image_bytes", len(imageData)),
		slog.String("mime_type", mimeType),
		slog.String("model", a.model))

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
				{Text: analysisPrompt},
			},
		},
	}

	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, genCfg)
	if err != nil {
		a.logger.ErrorContext(ctx, "Gemini API call failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", analysis.ErrAnalysisFailed, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", analysis.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason safety", analysis.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content in response", analysis.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var raw responseSchema
	if err := json.Unmarshal([]byte(text.String()), &raw); err != nil {
		a.logger.ErrorContext(ctx, "failed to parse model response",
			slog.String("error", err.Error()),
			slog.Int("response_length", text.Len()))
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			analysis.ErrInvalidResponse, err)
	}

	result := sanitizeResponse(&raw)
	a.logger.InfoContext(ctx, "note image analyzed",
		slog.String("title", result.Title),
		slog.String("subject", result.Subject),
		slog.Int("cue_count", len(result.Cues)),
		slog.Int("quiz_count", len(result.Quiz)))
	return result, nil
}

// sanitizeResponse converts a raw model response into a NoteAnalysis,
// filling defaults for missing fields so callers never see an empty title
// or nil slices.
func sanitizeResponse(raw *responseSchema) *analysis.NoteAnalysis {
	out := &analysis.NoteAnalysis{
		Title:        strings.TrimSpace(raw.Title),
		Subject:      strings.TrimSpace(raw.Subject),
		Summary:      strings.TrimSpace(raw.Summary),
		OriginalText: raw.OriginalText,
		Cues:         []string{},
		Quiz:         []domain.QuizItem{},
		Tags:         []string{},
	}

	if out.Title == "" {
		out.Title = analysis.DefaultTitle
	}
	if out.Subject == "" {
		out.Subject = analysis.DefaultSubject
	}

	for _, cue := range raw.Cues {
		if cue = strings.TrimSpace(cue); cue != "" {
			out.Cues = append(out.Cues, cue)
		}
	}

	for _, item := range raw.Quiz {
		q := strings.TrimSpace(item.Question)
		ans := strings.TrimSpace(item.Answer)
		if q == "" || ans == "" {
			continue
		}
		out.Quiz = append(out.Quiz, domain.QuizItem{Question: q, Answer: ans})
	}

	for _, tag := range raw.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}

	return out
}
