package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vibecoding/ideaforge/internal/idea"
)

// replayWordDelay paces the cosmetic word-by-word replay stream.
const replayWordDelay = 50 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleSubmitIdea runs one submission through the pipeline and stores the
// result for later retrieval.
func (s *Server) handleSubmitIdea(w http.ResponseWriter, r *http.Request) {
	var sub idea.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		s.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.pipeline.Run(r.Context(), sub)
	if err != nil {
		log.Warn("idea run failed", "error", err)
		s.writePipelineError(w, err)
		return
	}

	s.reports.Put(result)
	s.writeJSON(w, result)
}

// handleLastReport returns the most recent completed run.
func (s *Server) handleLastReport(w http.ResponseWriter, r *http.Request) {
	result := s.reports.Last()
	if result == nil {
		s.writeError(w, "No report available", http.StatusNotFound)
		return
	}
	s.writeJSON(w, result)
}

// handleDownloadReport serves the stored PRD as a markdown attachment,
// byte for byte as the model produced it.
func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	result := s.reports.Last()
	if result == nil {
		s.writeError(w, "No report available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "feasibility_report.md"))
	w.Write([]byte(result.Report.PRD))
}

// handleReplayReport streams the stored PRD over a websocket word by word.
// The split keeps separators attached so the concatenated stream is
// byte-identical to the stored text.
func (s *Server) handleReplayReport(w http.ResponseWriter, r *http.Request) {
	result := s.reports.Last()
	if result == nil {
		s.writeError(w, "No report available", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("replay upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for _, word := range strings.SplitAfter(result.Report.PRD, " ") {
		if word == "" {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(word)); err != nil {
			return
		}
		time.Sleep(replayWordDelay)
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}
