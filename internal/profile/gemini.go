package profile

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for profile narratives.
const DefaultModelName = "gemini-2.5-flash"

// Generator produces a narrative from a prepared prompt. The concrete
// implementation calls an external model; tests substitute a mock.
type Generator interface {
	GenerateProfile(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator is the genai-backed Generator.
type GeminiGenerator struct {
	model  string
	apiKey string
}

// NewGeminiGenerator creates a generator for the given model name, falling
// back to DefaultModelName when empty. An empty apiKey defers to the
// GEMINI_API_KEY environment variable.
func NewGeminiGenerator(model, apiKey string) *GeminiGenerator {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiGenerator{model: model, apiKey: apiKey}
}

// GenerateProfile sends the prompt to Gemini and returns the cleaned text.
func (g *GeminiGenerator) GenerateProfile(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("GenerateProfile: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenerateProfile: generate content: %w", err)
	}

	text := cleanNarrative(resp.Text())
	if text == "" {
		return "", fmt.Errorf("GenerateProfile: empty response from model")
	}
	return text, nil
}

// cleanNarrative strips Markdown fences the model sometimes adds despite
// instructions.
func cleanNarrative(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
