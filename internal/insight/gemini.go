package insight

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/i474232898/farm-insight/internal/apperr"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiCompleter implements Completer with the Gemini API.
type GeminiCompleter struct {
	model       string
	temperature float32
	generate    generateFunc
}

var _ Completer = (*GeminiCompleter)(nil)

func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newGeminiCompleter(model, client.Models.GenerateContent), nil
}

func newGeminiCompleter(model string, generate generateFunc) *GeminiCompleter {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiCompleter{model: model, temperature: 0.2, generate: generate}
}

func (g *GeminiCompleter) Name() string {
	return "gemini"
}

func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}

	resp, err := g.generate(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", apperr.ErrNetwork, err)
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate == nil || candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part != nil && part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: gemini returned no text", apperr.ErrMalformedPayload)
	}
	return text.String(), nil
}
