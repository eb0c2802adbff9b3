package insight

import (
	"context"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/i474232898/farm-insight/internal/apperr"
)

func TestGeminiCompleter(t *testing.T) {
	var gotModel string
	var gotText string
	c := newGeminiCompleter("", func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel = model
		gotText = contents[0].Parts[0].Text
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
			{Content: &genai.Content{}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: `{"a":`}, {Text: `1}`}}}},
		}}, nil
	})

	out, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)
	assert.Equal(t, DefaultGeminiModel, gotModel)
	assert.Equal(t, "hello", gotText)
}

func TestGeminiCompleterErrors(t *testing.T) {
	failing := newGeminiCompleter("m", func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("quota exceeded")
	})
	_, err := failing.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, apperr.ErrNetwork)

	empty := newGeminiCompleter("m", func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{}, nil
	})
	_, err = empty.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, apperr.ErrMalformedPayload)
}

func TestClaudeCompleter(t *testing.T) {
	var got anthropic.MessageNewParams
	c := newClaudeCompleter("", func(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
		got = params
		return &anthropic.Message{Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "{}"},
		}}, nil
	})

	out, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, anthropic.Model(DefaultClaudeModel), got.Model)
	assert.Equal(t, int64(2048), got.MaxTokens)
	require.Len(t, got.Messages, 1)
}

func TestClaudeCompleterErrors(t *testing.T) {
	failing := newClaudeCompleter("m", func(context.Context, anthropic.MessageNewParams, ...option.RequestOption) (*anthropic.Message, error) {
		return nil, errors.New("overloaded")
	})
	_, err := failing.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, apperr.ErrNetwork)

	empty := newClaudeCompleter("m", func(context.Context, anthropic.MessageNewParams, ...option.RequestOption) (*anthropic.Message, error) {
		return &anthropic.Message{}, nil
	})
	_, err = empty.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, apperr.ErrMalformedPayload)
}
