// internal/api/router.go
package api

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
)

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Inference service
	mux.HandleFunc("GET /models", h.listModels)

	// Exams
	mux.HandleFunc("POST /exams/validate", h.validateExam)

	// Runs
	mux.HandleFunc("POST /runs", h.startRun)
	mux.HandleFunc("GET /runs", h.listRuns)
	mux.HandleFunc("GET /runs/{runID}", h.getRun)
	mux.HandleFunc("GET /runs/{runID}/export", h.exportRun)

	// Jobs
	mux.HandleFunc("GET /jobs/{jobID}", h.getJob)
	mux.HandleFunc("GET /jobs/{jobID}/events", h.streamJob)

	// Derived views
	mux.HandleFunc("GET /leaderboard", h.getLeaderboard)
	mux.HandleFunc("GET /analytics", h.getQuestionAnalytics)
	mux.HandleFunc("GET /matrix", h.getMatrix)
	mux.HandleFunc("GET /stats", h.getStats)
}

// ============================================================================
// Middleware
// ============================================================================

// CORS allows the browser front end to call the API from another origin.
func CORS(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(next)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the logger.
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rec.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Logging logs one line per request.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
