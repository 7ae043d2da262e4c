package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibecoding/ideaforge/internal/idea"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout())
	assert.Equal(t, "data", cfg.Knowledge.DataDir)
	assert.Equal(t, 6000, cfg.Knowledge.MaxPromptChars)
	assert.False(t, cfg.RAG.Enabled)
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
	assert.Equal(t, 200, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 4, cfg.RAG.TopK)
	assert.Equal(t, idea.ModeRelaxed, cfg.Validation.IdeaMode())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ideaforge.yaml")
	content := `
llm:
  provider: anthropic
  model: claude-sonnet-4-20250514
admin:
  token: sekrit
validation:
  mode: strict
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.Equal(t, "sekrit", cfg.Admin.Token)
	assert.Equal(t, idea.ModeStrict, cfg.Validation.IdeaMode())
	// Untouched keys keep their defaults.
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IDEAFORGE_LLM_PROVIDER", "openrouter")
	t.Setenv("IDEAFORGE_KNOWLEDGE_DATADIR", "/srv/handouts")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.Equal(t, "/srv/handouts", cfg.Knowledge.DataDir)
}

func TestProviderKeyFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IDEAFORGE_LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
}

func TestExplicitKeyWinsOverFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IDEAFORGE_LLM_APIKEY", "explicit")
	t.Setenv("OPENAI_API_KEY", "ambient")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}
