package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/i474232898/farm-insight/internal/apperr"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-3-5-haiku-latest"

type sendFunc func(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)

// ClaudeCompleter implements Completer with the Anthropic Messages API.
type ClaudeCompleter struct {
	model     string
	maxTokens int64
	send      sendFunc
}

var _ Completer = (*ClaudeCompleter)(nil)

func NewClaudeCompleter(apiKey, model string) *ClaudeCompleter {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return newClaudeCompleter(model, client.Messages.New)
}

func newClaudeCompleter(model string, send sendFunc) *ClaudeCompleter {
	if model == "" {
		model = DefaultClaudeModel
	}
	return &ClaudeCompleter{model: model, maxTokens: 2048, send: send}
}

func (c *ClaudeCompleter) Name() string {
	return "claude"
}

func (c *ClaudeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.send(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("%w: claude: %v", apperr.ErrNetwork, err)
	}

	var text strings.Builder
	if resp != nil {
		for _, block := range resp.Content {
			if block.Type == "text" {
				text.WriteString(block.Text)
			}
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: claude returned no text", apperr.ErrMalformedPayload)
	}
	return text.String(), nil
}
