package style

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// GenAIAnalyzer generates style analyses with a Gemini model.
type GenAIAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGenAIAnalyzer creates an analyzer for the given API key and model.
func NewGenAIAnalyzer(ctx context.Context, apiKey, model string) (*GenAIAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIAnalyzer{client: client, model: model}, nil
}

// Analyze sends prompt to the model and returns its text answer.
func (a *GenAIAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			MaxOutputTokens:   500,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate style analysis: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("model returned an empty style analysis")
	}
	return text, nil
}
