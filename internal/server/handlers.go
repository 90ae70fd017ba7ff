package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sranjan/examforge/internal/assessment"
	"github.com/sranjan/examforge/internal/export"
	"github.com/sranjan/examforge/internal/store"
	"github.com/sranjan/examforge/internal/textbook"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.ID,
		"status":     sess.Status(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if s.sessions.Get(id) == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	s.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	resp := map[string]any{
		"session_id":   sess.ID,
		"status":       sess.Status(),
		"files":        sess.Files(),
		"current_part": sess.CurrentPart(),
		"questions":    len(sess.Questions()),
	}
	if a := sess.Analysis(); a != nil {
		resp["analysis"] = a
	}
	if err := sess.Err(); err != nil {
		resp["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUploadFile accepts one file per multipart request and registers it
// with the session. PDFs are inspected for a page count before acceptance.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	resp := map[string]any{
		"name":      header.Filename,
		"mime_type": mimeType,
		"size":      len(data),
	}

	if mimeType == "application/pdf" {
		info, err := textbook.InspectPDF(data)
		if err != nil {
			jsonError(w, "unreadable PDF: "+err.Error(), http.StatusBadRequest)
			return
		}
		resp["pages"] = info.Pages
		resp["preview"] = info.Preview
		s.log.Info("pdf accepted",
			zap.String("session", sess.ID),
			zap.String("name", header.Filename),
			zap.Int("pages", info.Pages),
			zap.Int("preview_len", len(info.Preview)),
		)
	}

	uf := textbook.UploadedFile{
		Name:       header.Filename,
		MIMEType:   mimeType,
		RawContent: base64.StdEncoding.EncodeToString(data),
	}
	if err := sess.AddFile(uf); err != nil {
		s.transitionError(w, err)
		return
	}

	resp["files"] = sess.Files()
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	result, err := sess.StartAnalysis(r.Context())
	if err != nil {
		s.transitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   sess.Status(),
		"analysis": result,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	part := sess.CurrentPart()
	batch, err := sess.GenerateNextPart(r.Context())
	if err != nil {
		s.transitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       sess.Status(),
		"part":         part,
		"count":        len(batch),
		"current_part": sess.CurrentPart(),
		"total":        len(sess.Questions()),
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	questions := sess.Questions()
	if v := r.URL.Query().Get("part"); v != "" {
		part, err := strconv.Atoi(v)
		if err != nil || part < 0 || part > 3 {
			jsonError(w, "part must be an integer in [0,3]", http.StatusBadRequest)
			return
		}
		questions = export.FilterPart(questions, part)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="assessment.csv"`)
	if err := export.WriteCSV(w, questions); err != nil {
		s.log.Error("csv export failed", zap.Error(err))
	}
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="assessment.json"`)
	if err := export.WriteJSON(w, sess.Questions()); err != nil {
		s.log.Error("json export failed", zap.Error(err))
	}
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := s.eventLog.QueryLLMEvents(r.Context(), store.QueryOpts{
		Limit:   limit,
		Purpose: r.URL.Query().Get("purpose"),
	})
	if err != nil {
		jsonError(w, "query events: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// session resolves the session from the URL, writing a 404 when missing.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *assessment.Session {
	id := chi.URLParam(r, "sessionID")
	sess := s.sessions.Get(id)
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil
	}
	return sess
}

// transitionError maps state-machine errors to HTTP statuses.
func (s *Server) transitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assessment.ErrBusy):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, assessment.ErrInvalidState):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		// Stage failures are recoverable; the session has already rolled
		// back and the same transition can be retried.
		jsonError(w, err.Error(), http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
