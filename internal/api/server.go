// Package api exposes the feasibility pipeline over HTTP: idea
// submission, report retrieval and replay, and the token-gated admin
// surface for managing the knowledge snapshot.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/vibecoding/ideaforge/internal/config"
	"github.com/vibecoding/ideaforge/internal/knowledge"
	"github.com/vibecoding/ideaforge/internal/llm"
	"github.com/vibecoding/ideaforge/internal/pipeline"
	"github.com/vibecoding/ideaforge/internal/rag"
	"github.com/vibecoding/ideaforge/internal/report"
)

// Server wires the pipeline and knowledge stores into an HTTP API.
type Server struct {
	cfg        *config.Config
	pipeline   *pipeline.Pipeline
	knowledge  *knowledge.Store
	retriever  *rag.Store
	reports    *ReportStore
	httpServer *http.Server
}

// NewServer creates an API server. retriever may be nil when retrieval is
// disabled; knowledge uploads then skip reindexing.
func NewServer(cfg *config.Config, p *pipeline.Pipeline, store *knowledge.Store, retriever *rag.Store) *Server {
	return &Server{
		cfg:       cfg,
		pipeline:  p,
		knowledge: store,
		retriever: retriever,
		reports:   NewReportStore(),
	}
}

// Start starts the API server on the given port and blocks until it stops.
func (s *Server) Start(port int) error {
	router := s.setupRoutes()

	addr := fmt.Sprintf(":%d", port)
	log.Info("starting API server", "addr", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: router,
	}
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check (public)
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Idea evaluation and report retrieval
	api.HandleFunc("/ideas", s.handleSubmitIdea).Methods("POST")
	api.HandleFunc("/reports/last", s.handleLastReport).Methods("GET")
	api.HandleFunc("/reports/last/download", s.handleDownloadReport).Methods("GET")
	api.HandleFunc("/reports/last/replay", s.handleReplayReport)

	// Admin surface, revealed only by the capability token
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.adminTokenMiddleware)
	admin.HandleFunc("/login", s.handleAdminLogin).Methods("POST")
	admin.HandleFunc("/knowledge", s.handleUploadKnowledge).Methods("POST")
	admin.HandleFunc("/knowledge", s.handleResetKnowledge).Methods("DELETE")
	admin.HandleFunc("/knowledge/download", s.handleDownloadKnowledge).Methods("GET")

	return router
}

// Response helpers
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writePipelineError maps a failed run onto a status code and a body that
// names the halted stage. Unparseable model output keeps the raw text so
// the caller can inspect what came back.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": err.Error()}
	code := http.StatusInternalServerError

	var perr *pipeline.Error
	if errors.As(err, &perr) {
		body["stage"] = string(perr.Stage)
		switch {
		case perr.Stage == pipeline.StageIdle:
			code = http.StatusBadRequest
		case errors.Is(err, llm.ErrNotConfigured):
			code = http.StatusServiceUnavailable
		case perr.Stage == pipeline.StageParsed:
			code = http.StatusBadGateway
			var uerr *report.UnparseableError
			if errors.As(err, &uerr) {
				body["raw"] = uerr.Raw
			}
		case perr.Stage == pipeline.StageModelCalled:
			code = http.StatusBadGateway
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// Health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"services": map[string]bool{
			"knowledge": strings.TrimSpace(s.knowledge.Snapshot()) != "",
			"retriever": s.retriever != nil,
			"api":       true,
		},
	}
	s.writeJSON(w, health)
}
