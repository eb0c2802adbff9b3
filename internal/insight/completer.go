package insight

import (
	"context"
	"fmt"
	"strings"
)

// Completer sends a prompt to a hosted text-generation model.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterConfig selects and configures the model backend.
type CompleterConfig struct {
	Provider        string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	ClaudeModel     string
}

// NewCompleter returns the configured Completer, or nil when the selected
// provider has no credential. A nil Completer makes the Generator use rules.
func NewCompleter(ctx context.Context, cfg CompleterConfig) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "none", "rules":
		return nil, nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "claude", "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, nil
		}
		return NewClaudeCompleter(cfg.AnthropicAPIKey, cfg.ClaudeModel), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
