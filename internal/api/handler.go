// internal/api/handler.go
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/llm-exam-tester/backend/internal/analytics"
	"github.com/llm-exam-tester/backend/internal/export"
	"github.com/llm-exam-tester/backend/internal/llm"
	"github.com/llm-exam-tester/backend/internal/service"
	"github.com/llm-exam-tester/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	store   store.Store
	jobs    *service.JobService
	llm     llm.Client
	scoring analytics.Scoring
	meta    export.MatrixMeta
	logger  *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s store.Store, jobs *service.JobService, client llm.Client, scoring analytics.Scoring, logger *slog.Logger) *Handler {
	return &Handler{
		store:   s,
		jobs:    jobs,
		llm:     client,
		scoring: scoring,
		meta:    export.DefaultMatrixMeta(),
		logger:  logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes the request body into v and answers 400 on failure.
// Returns false if the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

// wantsCSV reports whether the client asked for ?format=csv.
func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

// writeCSV streams a CSV attachment produced by fn.
func (h *Handler) writeCSV(w http.ResponseWriter, filename string, fn func(http.ResponseWriter) error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := fn(w); err != nil {
		h.logger.Error("csv export failed", "file", filename, "error", err)
	}
}
