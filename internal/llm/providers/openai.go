package providers

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/vibecoding/ideaforge/internal/llm"
)

// OpenAIHandler implements the Completer interface using the official
// OpenAI Go SDK.
type OpenAIHandler struct {
	options llm.Options
	client  *openai.Client
}

// NewOpenAIHandler creates a new OpenAI handler using the official SDK.
func NewOpenAIHandler(options llm.Options) *OpenAIHandler {
	opts := []option.RequestOption{option.WithAPIKey(options.APIKey)}
	if options.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(options.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIHandler{
		options: options,
		client:  &client,
	}
}

// Complete sends one completion request carrying the system and user
// instructions as separate roles.
func (h *OpenAIHandler) Complete(ctx context.Context, system, user string) (string, error) {
	if h.options.APIKey == "" {
		return "", llm.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, h.options.EffectiveTimeout())
	defer cancel()

	resp, err := h.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       openai.ChatModel(h.options.ModelID),
		Temperature: openai.Float(h.options.EffectiveTemperature()),
	})
	if err != nil {
		return "", &llm.TransportError{Cause: err}
	}

	if len(resp.Choices) == 0 {
		return "", llm.ErrEmptyResponse
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", llm.ErrEmptyResponse
	}
	return content, nil
}
