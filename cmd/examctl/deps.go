package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/llm-exam-tester/backend/internal/infrastructure/config"
	"github.com/llm-exam-tester/backend/internal/llm"
	"github.com/llm-exam-tester/backend/internal/store"
)

var (
	dbPath  string
	llmURL  string
	llmAPI  string
	verbose bool
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db",
			Usage:       "path to the results database (overrides DB_PATH)",
			Destination: &dbPath,
		},
		&cli.StringFlag{
			Name:        "llm-url",
			Usage:       "inference service base URL (overrides LLM_URL)",
			Destination: &llmURL,
		},
		&cli.StringFlag{
			Name:        "llm-api",
			Usage:       "inference API flavour: ollama or openai (overrides LLM_API)",
			Destination: &llmAPI,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "log every answered question",
			Destination: &verbose,
		},
	}
}

// deps bundles what the subcommands share.
type deps struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.SQLiteStore
}

// loadConfig applies command-line overrides on top of the environment.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("db") {
		cfg.DBPath = dbPath
	}
	if cmd.IsSet("llm-url") {
		cfg.LLMURL = llmURL
	}
	if cmd.IsSet("llm-api") {
		cfg.LLMAPI = llm.API(llmAPI)
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openDeps loads configuration and opens the results store. The caller
// closes the store.
func openDeps(cmd *cli.Command) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: config: %v", err), 1)
	}
	s, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: open %s: %v", cfg.DBPath, err), 1)
	}
	return &deps{cfg: cfg, logger: newLogger(), store: s}, nil
}

func (d *deps) client() (llm.Client, error) {
	client, err := llm.New(d.cfg.LLMAPI, llm.Options{
		BaseURL:     d.cfg.LLMURL,
		Timeout:     d.cfg.LLMTimeout,
		Temperature: d.cfg.LLMTemperature,
	})
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return client, nil
}

func (d *deps) close() {
	_ = d.store.Close()
}

// withDeps wraps an action that needs the shared dependencies.
func withDeps(fn func(ctx context.Context, cmd *cli.Command, d *deps) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()
		return fn(ctx, cmd, d)
	}
}
