package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/vibecoding/ideaforge/internal/api"
	"github.com/vibecoding/ideaforge/internal/config"
	"github.com/vibecoding/ideaforge/internal/feedback"
	"github.com/vibecoding/ideaforge/internal/knowledge"
	"github.com/vibecoding/ideaforge/internal/llm"
	"github.com/vibecoding/ideaforge/internal/llm/providers"
	"github.com/vibecoding/ideaforge/internal/pipeline"
	"github.com/vibecoding/ideaforge/internal/prompt"
	"github.com/vibecoding/ideaforge/internal/rag"
	"github.com/vibecoding/ideaforge/internal/rules"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feasibility API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runServe(cfg)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to run the API server on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg *config.Config) error {
	engine, err := rules.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to build rule engine: %w", err)
	}

	client, err := providers.Build(cfg.LLM.Provider, llm.Options{
		APIKey:      cfg.LLM.APIKey,
		ModelID:     cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := knowledge.NewStore()
	if cfg.Knowledge.DataDir != "" {
		if err := knowledge.Bootstrap(cfg.Knowledge.DataDir, store); err != nil {
			log.Warn("starting with an empty knowledge snapshot", "dir", cfg.Knowledge.DataDir, "error", err)
		}
		if cfg.Knowledge.Watch {
			watcher, err := knowledge.NewWatcher(cfg.Knowledge.DataDir, store)
			if err != nil {
				return fmt.Errorf("failed to watch knowledge dir: %w", err)
			}
			go watcher.Run(ctx)
		}
	}

	var feedbackStore *feedback.Store
	if cfg.Feedback.CSVPath != "" {
		feedbackStore, err = feedback.Load(cfg.Feedback.CSVPath)
		if err != nil {
			return fmt.Errorf("failed to load feedback sheet: %w", err)
		}
		log.Info("instructor feedback loaded", "entries", feedbackStore.Len())
	}

	var retriever *rag.Store
	if cfg.RAG.Enabled {
		embedder := rag.NewOpenAIEmbedder(embeddingKey(cfg), cfg.RAG.EmbeddingModel)
		retriever, err = rag.Open(cfg.RAG.DatabasePath, embedder, rag.Splitter{
			ChunkSize: cfg.RAG.ChunkSize,
			Overlap:   cfg.RAG.ChunkOverlap,
		})
		if err != nil {
			return fmt.Errorf("failed to open retrieval store: %w", err)
		}
		defer retriever.Close()
		if err := retriever.Reindex(ctx, store.Snapshot()); err != nil {
			log.Warn("initial knowledge reindex failed", "error", err)
		}
	}

	p := &pipeline.Pipeline{
		Rules:      engine,
		Builder:    prompt.Builder{KnowledgeLimit: cfg.Knowledge.MaxPromptChars},
		Client:     client,
		Knowledge:  store,
		Feedback:   feedbackStore,
		Retriever:  retriever,
		RetrieveK:  cfg.RAG.TopK,
		Validation: cfg.Validation.IdeaMode(),
	}

	server := api.NewServer(cfg, p, store, retriever)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(servePort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Stop(shutdownCtx)
	}
}

// embeddingKey picks the key used for the embedding client. Embeddings
// always go through OpenAI, so the configured key only applies when the
// chat provider is OpenAI too.
func embeddingKey(cfg *config.Config) string {
	if cfg.LLM.Provider == "" || cfg.LLM.Provider == "openai" {
		return cfg.LLM.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}
