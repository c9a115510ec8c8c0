package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nhasan/nutriai/internal/apperror"
	"github.com/nhasan/nutriai/internal/model"
)

// Gemini is an Analyzer backed by the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

// NewGemini creates a Gemini analyzer.
//
// An empty apiKey fails fast with a descriptive configuration error — the
// caller learns about the missing credential before any analysis is
// attempted, not in the middle of one.
func NewGemini(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, apperror.NotConfigured("Gemini API key is missing — set GEMINI_API_KEY to enable meal analysis")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("analyzer: creating Gemini client: %w", err)
	}

	m := client.GenerativeModel(modelName)
	// Ask for JSON directly instead of prose-wrapped JSON. parseEstimate
	// still tolerates a markdown fence in case the model ignores this.
	m.ResponseMIMEType = "application/json"

	return &Gemini{client: client, model: m, logger: logger}, nil
}

// AnalyzeImage sends a compressed JPEG of the meal and returns the parsed
// estimate.
func (g *Gemini) AnalyzeImage(ctx context.Context, jpegData []byte) (*model.Estimate, error) {
	return g.generate(ctx,
		genai.Text(systemPrompt),
		genai.ImageData("jpeg", jpegData),
		genai.Text("Analyze this meal image and provide the nutritional breakdown in JSON."),
	)
}

// AnalyzeText sends a free-text meal description and returns the parsed
// estimate.
func (g *Gemini) AnalyzeText(ctx context.Context, description string) (*model.Estimate, error) {
	return g.generate(ctx,
		genai.Text(systemPrompt),
		genai.Text(fmt.Sprintf("Analyze this meal description: %q and provide the nutritional breakdown in JSON.", description)),
	)
}

func (g *Gemini) generate(ctx context.Context, parts ...genai.Part) (*model.Estimate, error) {
	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		g.logger.Warn("gemini call failed", slog.String("error", err.Error()))
		return nil, apperror.AnalyzerFailed(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, apperror.AnalyzerFailed(fmt.Errorf("model returned no content"))
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, apperror.AnalyzerFailed(fmt.Errorf("model returned non-text content"))
	}

	est, err := parseEstimate(string(text))
	if err != nil {
		return nil, apperror.AnalyzerFailed(err)
	}
	return est, nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
