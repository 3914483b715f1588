package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/llm-exam-tester/backend/internal/llm"
)

func modelsCmd() *cli.Command {
	return &cli.Command{
		Name:    "models",
		Aliases: []string{"ls"},
		Usage:   "List models installed on the inference service",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: config: %v", err), 1)
			}
			client, err := llm.New(cfg.LLMAPI, llm.Options{BaseURL: cfg.LLMURL, Timeout: cfg.LLMTimeout})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			models, err := client.ListModels(ctx)
			var unavailable *llm.ServiceUnavailableError
			if errors.As(err, &unavailable) {
				return cli.Exit(fmt.Sprintf("error: %v (is the service running?)", err), 2)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if len(models) == 0 {
				newLogger().Info("no models installed", "url", cfg.LLMURL)
				return nil
			}
			for _, m := range models {
				fmt.Println(m)
			}
			return nil
		},
	}
}
