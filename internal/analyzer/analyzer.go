// Package analyzer talks to the external generative AI endpoint that turns
// a meal photo or text description into a structured nutrition estimate.
//
// THE ANALYZER IS A BEST-EFFORT COLLABORATOR:
// One request, one await, no retry, no fallback. A failure surfaces to the
// user as an error message and the operation is abandoned — they can tap
// the button again. The reply is untrusted: parsing defaults every missing
// field, and the user edits the numbers before anything reaches the meal
// ledger.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nhasan/nutriai/internal/model"
)

// Analyzer produces a nutrition estimate from an image or a description.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, jpegData []byte) (*model.Estimate, error)
	AnalyzeText(ctx context.Context, description string) (*model.Estimate, error)
	Close() error
}

// systemPrompt pins the model to the app's JSON contract. The structure
// here is load-bearing — parseEstimate expects exactly these fields.
const systemPrompt = `
You are a nutrition expert AI for the NutriAI app.
Your task is to analyze a meal (via image or text description) and provide a detailed nutritional breakdown.
You must return only a valid JSON object with the following structure:
{
  "mealName": "Name of the meal",
  "items": [
    {
      "name": "Food item name",
      "calories": 0,
      "protein": 0,
      "carbs": 0,
      "fat": 0,
      "portion": "Estimated portion (e.g., 200g, 1 cup)"
    }
  ],
  "totals": {
    "calories": 0,
    "protein": 0,
    "carbs": 0,
    "fat": 0
  }
}
Be as accurate as possible with estimations. Use standard nutritional data.
`

// parseEstimate decodes the model's JSON reply and applies the boundary
// defaults. Models sometimes wrap JSON in a markdown fence despite being
// told not to; strip it before decoding.
func parseEstimate(raw string) (*model.Estimate, error) {
	raw = strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(raw, "```json"); ok {
		raw = after
	} else if after, ok := strings.CutPrefix(raw, "```"); ok {
		raw = after
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")

	var est model.Estimate
	if err := json.Unmarshal([]byte(raw), &est); err != nil {
		return nil, fmt.Errorf("analyzer: decoding estimate: %w", err)
	}
	est.Normalize()
	return &est, nil
}
