package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/vibecoding/ideaforge/internal/knowledge"
)

// maxUploadBytes caps one admin upload batch.
const maxUploadBytes = 32 << 20

// adminTokenMiddleware hides the admin surface behind a capability token in
// the URL. Without the right token the routes act as if they do not exist.
func (s *Server) adminTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if s.cfg.Admin.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Admin.Token)) != 1 {
			s.writeError(w, "Not found", http.StatusNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleAdminLogin checks the panel password by digest equality.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	got := sha256.Sum256([]byte(body.Password))
	want := sha256.Sum256([]byte(s.cfg.Admin.Password))
	authorized := s.cfg.Admin.Password != "" &&
		subtle.ConstantTimeCompare(got[:], want[:]) == 1

	if !authorized {
		w.WriteHeader(http.StatusUnauthorized)
	}
	s.writeJSON(w, map[string]bool{"authorized": authorized})
}

// handleUploadKnowledge replaces the knowledge snapshot with the extracted
// text of the uploaded batch. A file that fails extraction contributes a
// placeholder instead of aborting the batch.
func (s *Server) handleUploadKnowledge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, "Invalid multipart upload", http.StatusBadRequest)
		return
	}

	var files []knowledge.File
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				files = append(files, knowledge.File{Name: header.Filename, ReadErr: err})
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				files = append(files, knowledge.File{Name: header.Filename, ReadErr: err})
				continue
			}
			files = append(files, knowledge.File{Name: header.Filename, Data: data})
		}
	}
	if len(files) == 0 {
		s.writeError(w, "No files in upload", http.StatusBadRequest)
		return
	}

	snapshot := knowledge.BuildSnapshot(files)
	s.knowledge.Replace(snapshot)
	log.Info("knowledge snapshot replaced", "files", len(files), "chars", len(snapshot))

	if s.retriever != nil {
		if err := s.retriever.Reindex(r.Context(), snapshot); err != nil {
			log.Error("failed to reindex knowledge", "error", err)
			s.writeError(w, fmt.Sprintf("Snapshot stored but reindex failed: %v", err), http.StatusInternalServerError)
			return
		}
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	s.writeJSON(w, map[string]interface{}{
		"files": names,
		"chars": len(snapshot),
	})
}

// handleResetKnowledge clears the snapshot (and the index when present).
func (s *Server) handleResetKnowledge(w http.ResponseWriter, r *http.Request) {
	s.knowledge.Clear()
	if s.retriever != nil {
		if err := s.retriever.Reindex(r.Context(), ""); err != nil {
			log.Error("failed to clear knowledge index", "error", err)
			s.writeError(w, fmt.Sprintf("Snapshot cleared but index reset failed: %v", err), http.StatusInternalServerError)
			return
		}
	}
	s.writeJSON(w, map[string]string{"status": "cleared"})
}

// handleDownloadKnowledge serves the current snapshot verbatim.
func (s *Server) handleDownloadKnowledge(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "knowledge_snapshot.txt"))
	w.Write([]byte(s.knowledge.Snapshot()))
}
