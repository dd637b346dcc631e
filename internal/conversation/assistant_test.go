// ABOUTME: Tests for the Gemini assistant request mapping
// ABOUTME: Uses a fake genai model client

package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	text     string
	err      error
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.contents = contents
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}}}},
	}, nil
}

func TestGeminiAssistant_ReplyMapsHistory(t *testing.T) {
	fm := &fakeModels{text: "D'accord."}
	a := NewGeminiAssistant(fm, "", nil)

	history := []Message{
		{Role: RoleAssistant, Content: Greeting},
		{Role: RoleUser, Content: "salut"},
	}
	out, err := a.Reply(context.Background(), "et maintenant ?", history)
	require.NoError(t, err)
	assert.Equal(t, "D'accord.", out)

	require.Len(t, fm.contents, 3)
	assert.Equal(t, genai.RoleModel, fm.contents[0].Role)
	assert.Equal(t, genai.RoleUser, fm.contents[1].Role)
	assert.Equal(t, "et maintenant ?", fm.contents[2].Parts[0].Text)
	require.NotNil(t, fm.config.SystemInstruction)
	assert.Equal(t, systemInstruction, fm.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(0), *fm.config.ThinkingConfig.ThinkingBudget)
}

func TestGeminiAssistant_Errors(t *testing.T) {
	a := NewGeminiAssistant(&fakeModels{err: errors.New("quota")}, "", nil)
	_, err := a.Reply(context.Background(), "x", nil)
	assert.ErrorContains(t, err, "quota")

	a = NewGeminiAssistant(&fakeModels{}, "", nil)
	_, err = a.Reply(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestGeminiAssistant_Translate(t *testing.T) {
	fm := &fakeModels{text: "Salama"}
	a := NewGeminiAssistant(fm, "", nil)

	out, err := a.Translate(context.Background(), "Bonjour", "Malagasy")
	require.NoError(t, err)
	assert.Equal(t, "Salama", out)
	assert.Equal(t, "Traduire en Malagasy: Bonjour", fm.contents[0].Parts[0].Text)
	assert.Equal(t, translateInstruction, fm.config.SystemInstruction.Parts[0].Text)
}
