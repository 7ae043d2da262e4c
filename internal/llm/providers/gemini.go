package providers

import (
	"context"
	"strings"
	"sync"

	"github.com/vibecoding/ideaforge/internal/llm"
	"google.golang.org/genai"
)

// GeminiHandler implements the Completer interface using the official
// Google Generative AI SDK.
type GeminiHandler struct {
	options llm.Options

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiHandler creates a new Gemini handler. The SDK client is created
// lazily because genai.NewClient needs a context.
func NewGeminiHandler(options llm.Options) *GeminiHandler {
	return &GeminiHandler{options: options}
}

func (h *GeminiHandler) getClient(ctx context.Context) (*genai.Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return h.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  h.options.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	h.client = client
	return client, nil
}

// Complete sends one generate-content request with the system instruction
// attached via the generation config.
func (h *GeminiHandler) Complete(ctx context.Context, system, user string) (string, error) {
	if h.options.APIKey == "" {
		return "", llm.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, h.options.EffectiveTimeout())
	defer cancel()

	client, err := h.getClient(ctx)
	if err != nil {
		return "", &llm.TransportError{Cause: err}
	}

	temperature := float32(h.options.EffectiveTemperature())
	result, err := client.Models.GenerateContent(ctx, h.options.ModelID, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temperature,
	})
	if err != nil {
		return "", &llm.TransportError{Cause: err}
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}
