package providers

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/vibecoding/ideaforge/internal/llm"
)

// AnthropicHandler implements the Completer interface using the official
// Anthropic SDK.
type AnthropicHandler struct {
	options llm.Options
	client  *anthropic.Client
}

// NewAnthropicHandler creates a new Anthropic handler using the official SDK.
func NewAnthropicHandler(options llm.Options) *AnthropicHandler {
	client := anthropic.NewClient(
		option.WithAPIKey(options.APIKey),
	)

	return &AnthropicHandler{
		options: options,
		client:  &client,
	}
}

// Complete sends one message request with the system instruction in the
// dedicated system slot.
func (h *AnthropicHandler) Complete(ctx context.Context, system, user string) (string, error) {
	if h.options.APIKey == "" {
		return "", llm.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, h.options.EffectiveTimeout())
	defer cancel()

	message, err := h.client.Messages.New(ctx, anthropic.MessageNewParams{
		MaxTokens: 8192,
		Model:     anthropic.Model(h.options.ModelID),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
		Temperature: anthropic.Float(h.options.EffectiveTemperature()),
	})
	if err != nil {
		return "", &llm.TransportError{Cause: err}
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", llm.ErrEmptyResponse
	}
	return sb.String(), nil
}
