// Package config loads the application configuration from an optional
// config file, environment variables, and defaults, in that order of
// precedence (env over file over defaults).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vibecoding/ideaforge/internal/idea"
)

// LLMConfig selects and configures the model provider.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"apiKey"`
	BaseURL     string  `mapstructure:"baseURL"`
	Temperature float64 `mapstructure:"temperature"`
	TimeoutSecs int     `mapstructure:"timeoutSecs"`
}

// Timeout returns the request timeout as a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// AdminConfig holds the two admin secrets: the capability URL token that
// reveals the admin surface and the panel password checked by digest.
type AdminConfig struct {
	Token    string `mapstructure:"token"`
	Password string `mapstructure:"password"`
}

// KnowledgeConfig controls the reference-document workflow.
type KnowledgeConfig struct {
	DataDir        string `mapstructure:"dataDir"`
	Watch          bool   `mapstructure:"watch"`
	MaxPromptChars int    `mapstructure:"maxPromptChars"`
}

// RAGConfig controls the optional retrieval path.
type RAGConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	DatabasePath   string `mapstructure:"databasePath"`
	EmbeddingModel string `mapstructure:"embeddingModel"`
	ChunkSize      int    `mapstructure:"chunkSize"`
	ChunkOverlap   int    `mapstructure:"chunkOverlap"`
	TopK           int    `mapstructure:"topK"`
}

// FeedbackConfig points at the instructor feedback sheet.
type FeedbackConfig struct {
	CSVPath string `mapstructure:"csvPath"`
}

// ValidationConfig selects the submission validation mode.
type ValidationConfig struct {
	Mode string `mapstructure:"mode"`
}

// IdeaMode maps the configured mode string onto the validation modes.
func (c ValidationConfig) IdeaMode() idea.ValidationMode {
	if c.Mode == string(idea.ModeStrict) {
		return idea.ModeStrict
	}
	return idea.ModeRelaxed
}

// Config is the root application configuration.
type Config struct {
	LLM        LLMConfig        `mapstructure:"llm"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge"`
	RAG        RAGConfig        `mapstructure:"rag"`
	Feedback   FeedbackConfig   `mapstructure:"feedback"`
	Validation ValidationConfig `mapstructure:"validation"`
	Debug      bool             `mapstructure:"debug"`
}

// Load reads configuration. path may be empty, in which case only an
// ideaforge.yaml in the working directory is considered, and its absence
// is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("IDEAFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("ideaforge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvFallbacks(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.timeoutSecs", 45)
	v.SetDefault("admin.token", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("knowledge.dataDir", "data")
	v.SetDefault("knowledge.watch", false)
	v.SetDefault("knowledge.maxPromptChars", 6000)
	v.SetDefault("rag.enabled", false)
	v.SetDefault("rag.databasePath", "ideaforge-rag.db")
	v.SetDefault("rag.embeddingModel", "text-embedding-3-small")
	v.SetDefault("rag.chunkSize", 1000)
	v.SetDefault("rag.chunkOverlap", 200)
	v.SetDefault("rag.topK", 4)
	v.SetDefault("feedback.csvPath", "")
	v.SetDefault("validation.mode", string(idea.ModeRelaxed))
}

// applyEnvFallbacks honors the conventional provider key variables when no
// key was configured explicitly.
func applyEnvFallbacks(cfg *Config) {
	if cfg.LLM.APIKey != "" {
		return
	}
	switch cfg.LLM.Provider {
	case "anthropic":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "gemini":
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	case "openrouter":
		cfg.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}
