// ABOUTME: Gemini-backed screenshot analyzer using google.golang.org/genai
// ABOUTME: Requests schema-constrained JSON with inline image bytes and no thinking budget

package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-3-flash-preview"

const (
	screenshotPrompt = `JSON only: {"lastTime":"HH:mm:ss","lastMultiplier":"X.XX","lastRoundId":"ID"}`
	seedPrompt       = `JSON only: {"multiplier1":"X.XX","multiplier2":"X.XX","baseTime":"HH:mm:ss"}`
)

// Analyzer reads crash data out of a screenshot and returns raw JSON text
type Analyzer interface {
	AnalyzeScreenshot(ctx context.Context, image []byte) (string, error)
	AnalyzeSeed(ctx context.Context, image []byte) (string, error)
}

// Models is the slice of the genai client the analyzer uses.
// *genai.Models implements it.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiClient creates a genai client for the Gemini API
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client, nil
}

// GeminiAnalyzer is an Analyzer backed by a Gemini model
type GeminiAnalyzer struct {
	models Models
	model  string
	logger *slog.Logger
}

// NewGeminiAnalyzer creates an analyzer. An empty model uses DefaultModel.
func NewGeminiAnalyzer(models Models, model string, logger *slog.Logger) *GeminiAnalyzer {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiAnalyzer{
		models: models,
		model:  model,
		logger: logger.With("component", "analysis"),
	}
}

// AnalyzeScreenshot extracts the last crash time, multiplier and round id
func (a *GeminiAnalyzer) AnalyzeScreenshot(ctx context.Context, image []byte) (string, error) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"lastTime":       {Type: genai.TypeString},
			"lastMultiplier": {Type: genai.TypeString},
			"lastRoundId":    {Type: genai.TypeString},
		},
		Required: []string{"lastTime", "lastMultiplier"},
	}
	return a.generate(ctx, "screenshot", image, screenshotPrompt, schema)
}

// AnalyzeSeed extracts the last two crash multipliers and their base time
func (a *GeminiAnalyzer) AnalyzeSeed(ctx context.Context, image []byte) (string, error) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"multiplier1": {Type: genai.TypeString, Description: "Last crash"},
			"multiplier2": {Type: genai.TypeString, Description: "Crash before the last"},
			"baseTime":    {Type: genai.TypeString},
		},
		Required: []string{"multiplier1", "multiplier2", "baseTime"},
	}
	return a.generate(ctx, "seed", image, seedPrompt, schema)
}

func (a *GeminiAnalyzer) generate(ctx context.Context, task string, image []byte, prompt string, schema *genai.Schema) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, imageMIMEType(image)),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}

	resp, err := a.models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		a.logger.Warn("analysis request failed", "task", task, "model", a.model, "error", err)
		return "", fmt.Errorf("%w: %s analysis: %w", ErrUpstreamUnavailable, task, err)
	}

	text := resp.Text()
	if text == "" {
		text = "{}"
	}
	a.logger.Debug("analysis complete", "task", task, "bytes", len(text))
	return text, nil
}

// imageMIMEType sniffs the capture's type, defaulting to JPEG
func imageMIMEType(image []byte) string {
	switch ct := http.DetectContentType(image); ct {
	case "image/png", "image/jpeg", "image/webp", "image/gif":
		return ct
	default:
		return "image/jpeg"
	}
}
