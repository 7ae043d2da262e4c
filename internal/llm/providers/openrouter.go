package providers

import (
	"context"
	"strings"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/vibecoding/ideaforge/internal/llm"
)

// OpenRouterHandler implements the Completer interface using the OpenRouter
// Go SDK.
type OpenRouterHandler struct {
	options llm.Options
	client  *openrouter.Client
}

// NewOpenRouterHandler creates a new OpenRouter handler.
func NewOpenRouterHandler(options llm.Options) *OpenRouterHandler {
	return &OpenRouterHandler{
		options: options,
		client:  openrouter.NewClient(options.APIKey),
	}
}

// Complete sends one chat-completion request with system and user roles.
func (h *OpenRouterHandler) Complete(ctx context.Context, system, user string) (string, error) {
	if h.options.APIKey == "" {
		return "", llm.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, h.options.EffectiveTimeout())
	defer cancel()

	resp, err := h.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:       h.options.ModelID,
		Temperature: float32(h.options.EffectiveTemperature()),
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role:    openrouter.ChatMessageRoleSystem,
				Content: openrouter.Content{Text: system},
			},
			{
				Role:    openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{Text: user},
			},
		},
	})
	if err != nil {
		return "", &llm.TransportError{Cause: err}
	}

	if len(resp.Choices) == 0 {
		return "", llm.ErrEmptyResponse
	}
	content := resp.Choices[0].Message.Content.Text
	if strings.TrimSpace(content) == "" {
		return "", llm.ErrEmptyResponse
	}
	return content, nil
}
