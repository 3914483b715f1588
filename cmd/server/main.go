package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/llm-exam-tester/backend/internal/api"
	"github.com/llm-exam-tester/backend/internal/infrastructure/config"
	"github.com/llm-exam-tester/backend/internal/llm"
	"github.com/llm-exam-tester/backend/internal/service"
	"github.com/llm-exam-tester/backend/internal/store"

	_ "github.com/llm-exam-tester/backend/docs" // generated swagger docs
)

// @title           LLM Exam Tester API
// @version         1.0
// @description     Benchmark local LLMs against a multiple-choice exam and compare them.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	client, err := llm.New(cfg.LLMAPI, llm.Options{
		BaseURL:     cfg.LLMURL,
		Timeout:     cfg.LLMTimeout,
		Temperature: cfg.LLMTemperature,
	})
	if err != nil {
		logger.Error("failed to create inference client", "error", err)
		os.Exit(1)
	}

	runner := service.NewRunner(client, logger, service.RunnerOptions{MaxAttempts: cfg.RunMaxAttempts})
	jobs := service.NewJobService(runner, db, logger, cfg.RunWorkers)
	defer jobs.Close()

	handler := api.NewHandler(db, jobs, client, cfg.Scoring, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	// No WriteTimeout: progress websockets stay open for a whole run.
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"llm_url", cfg.LLMURL,
		"llm_api", cfg.LLMAPI,
		"workers", cfg.RunWorkers,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
