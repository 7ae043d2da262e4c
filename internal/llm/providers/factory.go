// Package providers implements Completer handlers for the supported model
// providers, one file per provider, built through a single factory.
package providers

import (
	"fmt"

	"github.com/vibecoding/ideaforge/internal/llm"
)

// Supported provider names.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Build creates a Completer for the named provider. A missing credential is
// not an error here; the handler reports ErrNotConfigured on first use so
// the failure surfaces at generation time, before any network attempt.
func Build(provider string, options llm.Options) (llm.Completer, error) {
	switch provider {
	case ProviderOpenAI, "":
		return NewOpenAIHandler(options), nil
	case ProviderAnthropic:
		return NewAnthropicHandler(options), nil
	case ProviderGemini:
		return NewGeminiHandler(options), nil
	case ProviderOpenRouter:
		return NewOpenRouterHandler(options), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
