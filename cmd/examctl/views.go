package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/llm-exam-tester/backend/internal/analytics"
	"github.com/llm-exam-tester/backend/internal/export"
	"github.com/llm-exam-tester/backend/internal/store"
)

func leaderboardCmd() *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "Rank models by combined accuracy and speed (CSV)",
		Action: withDeps(func(ctx context.Context, cmd *cli.Command, d *deps) error {
			runs, err := d.store.AllRuns(ctx)
			if err != nil {
				return err
			}
			return export.Leaderboard(os.Stdout, analytics.Leaderboard(runs, d.cfg.Scoring))
		}),
	}
}

func analyticsCmd() *cli.Command {
	return &cli.Command{
		Name:  "analytics",
		Usage: "Per-question success rate and difficulty (CSV)",
		Action: withDeps(func(ctx context.Context, cmd *cli.Command, d *deps) error {
			runs, err := d.store.AllRuns(ctx)
			if err != nil {
				return err
			}
			return export.QuestionAnalytics(os.Stdout, analytics.QuestionAnalytics(runs, d.cfg.Scoring))
		}),
	}
}

func matrixCmd() *cli.Command {
	var (
		mode     string
		kind     string
		rag      string
		oneByOne string
	)
	meta := export.DefaultMatrixMeta()

	return &cli.Command{
		Name:  "matrix",
		Usage: "Model × question correctness matrix (CSV)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "mode",
				Usage:       "latest (one row per model) or all (one row per run)",
				Value:       string(analytics.MatrixLatest),
				Destination: &mode,
			},
			&cli.StringFlag{
				Name:        "type",
				Usage:       "value of the Type column",
				Value:       meta.Type,
				Destination: &kind,
			},
			&cli.StringFlag{
				Name:        "rag",
				Usage:       "value of the RAG column",
				Value:       meta.RAG,
				Destination: &rag,
			},
			&cli.StringFlag{
				Name:        "one-by-one",
				Usage:       "value of the 1by1 column",
				Value:       meta.OneBy,
				Destination: &oneByOne,
			},
		},
		Action: withDeps(func(ctx context.Context, cmd *cli.Command, d *deps) error {
			m, err := analytics.ParseMatrixMode(mode)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			runs, err := d.store.AllRuns(ctx)
			if err != nil {
				return err
			}
			matrix, err := analytics.BuildMatrix(runs, m)
			if err != nil {
				return err
			}
			return export.Matrix(os.Stdout, matrix, export.MatrixMeta{Type: kind, RAG: rag, OneBy: oneByOne})
		}),
	}
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "All stored runs, newest first (CSV)",
		Action: withDeps(func(ctx context.Context, cmd *cli.Command, d *deps) error {
			runs, err := d.store.AllRuns(ctx)
			if err != nil {
				return err
			}
			return export.History(os.Stdout, analytics.History(runs))
		}),
	}
}

func statsCmd() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Headline numbers over all runs",
		Action: withDeps(func(ctx context.Context, cmd *cli.Command, d *deps) error {
			runs, err := d.store.AllRuns(ctx)
			if err != nil {
				return err
			}
			s := analytics.Summarize(runs)
			fmt.Printf("Total tests:   %d\n", s.TotalRuns)
			fmt.Printf("Unique models: %d\n", s.Models)
			fmt.Printf("Average score: %.1f%%\n", s.AvgScore)
			if s.BestModel != "" {
				fmt.Printf("Best model:    %s (%.1f%%)\n", s.BestModel, s.BestModelAvg)
			}
			return nil
		}),
	}
}

func exportRunCmd() *cli.Command {
	var runID string

	return &cli.Command{
		Name:  "export-run",
		Usage: "Per-question results of one run (CSV)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "id",
				Usage:       "run ID, as shown by history",
				Required:    true,
				Destination: &runID,
			},
		},
		Action: withDeps(func(ctx context.Context, cmd *cli.Command, d *deps) error {
			report, err := d.store.GetRun(ctx, runID)
			if errors.Is(err, store.ErrNotFound) {
				return cli.Exit(fmt.Sprintf("error: run %s not found", runID), 1)
			}
			if err != nil {
				return err
			}
			return export.RunDetail(os.Stdout, report)
		}),
	}
}
