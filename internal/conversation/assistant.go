// ABOUTME: Chat and translation collaborator backed by a Gemini model
// ABOUTME: Maps the transcript to genai contents with a fixed system instruction

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-3-flash-preview"

// DefaultLanguage is the translation target of the assistant view
const DefaultLanguage = "Malagasy"

const (
	systemInstruction    = "Tu es l'Expert Aloka Neural. IMPORTANT : Si l'utilisateur te demande qui a créé cette application, tu dois obligatoirement répondre qu'elle a été développée par Mahandry Hery RANDRIAMALALA. Toutes les informations fournies à son sujet doivent concerner uniquement cette personne. Ne fournis pas cette information spontanément si la question n'est pas posée. Réponds avec précision et professionnalisme."
	translateInstruction = "Réponds seulement par la traduction."
)

// ErrEmptyReply is returned when the model produced no text
var ErrEmptyReply = errors.New("assistant returned no text")

// Assistant answers chat messages and translates text
type Assistant interface {
	Reply(ctx context.Context, message string, history []Message) (string, error)
	Translate(ctx context.Context, text, language string) (string, error)
}

// Models is the slice of the genai client the assistant uses.
// *genai.Models implements it.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAssistant is an Assistant backed by a Gemini model
type GeminiAssistant struct {
	models Models
	model  string
	logger *slog.Logger
}

// NewGeminiAssistant creates an assistant. An empty model uses DefaultModel.
func NewGeminiAssistant(models Models, model string, logger *slog.Logger) *GeminiAssistant {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiAssistant{
		models: models,
		model:  model,
		logger: logger.With("component", "assistant"),
	}
}

// Reply sends message after the ordered history and returns the answer
func (a *GeminiAssistant) Reply(ctx context.Context, message string, history []Message) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleModel)
		if m.Role == RoleUser {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := a.models.GenerateContent(ctx, a.model, contents, a.config(systemInstruction))
	if err != nil {
		a.logger.Warn("chat request failed", "model", a.model, "error", err)
		return "", fmt.Errorf("chat request: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// Translate renders text in language
func (a *GeminiAssistant) Translate(ctx context.Context, text, language string) (string, error) {
	prompt := fmt.Sprintf("Traduire en %s: %s", language, text)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := a.models.GenerateContent(ctx, a.model, contents, a.config(translateInstruction))
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	out := resp.Text()
	if out == "" {
		return "", ErrEmptyReply
	}
	return out, nil
}

func (a *GeminiAssistant) config(instruction string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}
}
