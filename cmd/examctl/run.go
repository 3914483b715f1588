package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/llm-exam-tester/backend/internal/analytics"
	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
	"github.com/llm-exam-tester/backend/internal/export"
	"github.com/llm-exam-tester/backend/internal/service"
	"github.com/llm-exam-tester/backend/internal/store"
)

func runCmd() *cli.Command {
	var (
		models        []string
		allModels     bool
		questionsPath string
		answersPath   string
		parallel      int64
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Run the exam against one or more models and store the results",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "model",
				Aliases:     []string{"m"},
				Usage:       "model to test (repeatable)",
				Destination: &models,
			},
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "test every installed model",
				Destination: &allModels,
			},
			&cli.StringFlag{
				Name:        "questions",
				Usage:       "questions CSV (default: bundled exam)",
				Destination: &questionsPath,
			},
			&cli.StringFlag{
				Name:        "answers",
				Usage:       "answers CSV (default: bundled exam)",
				Destination: &answersPath,
			},
			&cli.Int64Flag{
				Name:        "parallel",
				Aliases:     []string{"p"},
				Usage:       "number of models tested at once",
				Value:       1,
				Destination: &parallel,
			},
		},
		Action: withDeps(func(ctx context.Context, cmd *cli.Command, d *deps) error {
			e, err := loadExam(questionsPath, answersPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load exam: %v", err), 1)
			}

			client, err := d.client()
			if err != nil {
				return err
			}

			if allModels {
				installed, err := client.ListModels(ctx)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 2)
				}
				models = append(models, installed...)
			}
			if len(models) == 0 {
				return cli.Exit("error: pass --model at least once, or --all", 1)
			}

			runner := service.NewRunner(client, d.logger, service.RunnerOptions{MaxAttempts: d.cfg.RunMaxAttempts})

			reports, runErr := runModels(ctx, runner, d.store, d.logger, e, models, int(max(parallel, 1)))

			// Runs that finished are stored even when another model failed.
			if len(reports) > 0 {
				if err := export.History(os.Stdout, analytics.History(reports)); err != nil {
					return err
				}
			}
			if runErr != nil {
				return cli.Exit(fmt.Sprintf("error: %v", runErr), 1)
			}
			return nil
		}),
	}
}

// runModels tests each model independently, at most parallel at a time.
// A failing model does not cancel the others; its error is joined into the
// returned error while the successful reports are stored and returned.
func runModels(ctx context.Context, runner *service.Runner, s store.Store, logger *slog.Logger,
	e *exam.Exam, models []string, parallel int) ([]*run.Report, error) {
	var (
		mu      sync.Mutex
		reports []*run.Report
		errs    []error
		g       errgroup.Group
	)
	g.SetLimit(max(parallel, 1))

	for _, model := range models {
		g.Go(func() error {
			obs := service.ProgressFunc(func(p service.Progress) {
				logger.Debug("progress", "model", p.Model, "status", p.Status, "fraction", p.Fraction)
			})

			report, err := runner.Run(ctx, model, e, obs)
			if err == nil {
				if err = s.AppendRun(ctx, report); err != nil {
					err = fmt.Errorf("save run: %w", err)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("model run failed", "model", model, "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", model, err))
				return nil
			}
			reports = append(reports, report)
			return nil
		})
	}
	g.Wait()

	return reports, errors.Join(errs...)
}

func loadExam(questionsPath, answersPath string) (*exam.Exam, error) {
	switch {
	case questionsPath == "" && answersPath == "":
		return exam.Default(), nil
	case questionsPath == "" || answersPath == "":
		return nil, fmt.Errorf("--questions and --answers must be given together")
	}
	return exam.LoadFiles(questionsPath, answersPath)
}
