package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/vibecoding/ideaforge/internal/llm"
)

func TestBuildKnownProviders(t *testing.T) {
	for _, name := range []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOpenRouter, ""} {
		if _, err := Build(name, llm.Options{APIKey: "k", ModelID: "m"}); err != nil {
			t.Errorf("Build(%q) error = %v", name, err)
		}
	}
}

func TestBuildUnknownProvider(t *testing.T) {
	if _, err := Build("mainframe", llm.Options{}); err == nil {
		t.Error("Build accepted an unknown provider")
	}
}

func TestCompleteWithoutCredential(t *testing.T) {
	// Every handler must fail fast with ErrNotConfigured and never attempt
	// a network call when no API key is configured.
	for _, name := range []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOpenRouter} {
		handler, err := Build(name, llm.Options{ModelID: "m"})
		if err != nil {
			t.Fatalf("Build(%q): %v", name, err)
		}
		_, err = handler.Complete(context.Background(), "sys", "user")
		if !errors.Is(err, llm.ErrNotConfigured) {
			t.Errorf("%s: error = %v, want ErrNotConfigured", name, err)
		}
	}
}
