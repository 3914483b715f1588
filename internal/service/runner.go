// internal/service/runner.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
	"github.com/llm-exam-tester/backend/internal/llm"
)

// RunnerOptions tunes a Runner.
type RunnerOptions struct {
	// MaxAttempts is how many times a failed Ask is tried per question.
	// Values below 1 mean 1.
	MaxAttempts int
}

// Runner drives one model through an exam, one question at a time.
// A Runner holds no per-run state and may serve concurrent runs.
type Runner struct {
	client      llm.Client
	logger      *slog.Logger
	maxAttempts int
}

// NewRunner creates a Runner.
func NewRunner(client llm.Client, logger *slog.Logger, opts RunnerOptions) *Runner {
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Runner{
		client:      client,
		logger:      logger,
		maxAttempts: attempts,
	}
}

// Run asks every question of e in order and returns the scored report.
//
// A failed Ask is recorded as an unparseable, incorrect result and the run
// continues. If the service is unreachable before the first question
// completes, Run returns the *llm.ServiceUnavailableError and no report.
// Cancelling ctx stops the run between questions and returns ctx.Err().
func (r *Runner) Run(ctx context.Context, model string, e *exam.Exam, obs Observer) (*run.Report, error) {
	if obs == nil {
		obs = nopObserver{}
	}

	questions := e.Questions()
	total := len(questions)
	start := time.Now()
	log := r.logger.With("model", model)

	log.Info("run started", "questions", total)

	results := make([]run.QuestionResult, 0, total)
	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		correct, _ := e.CorrectAnswer(q.ID)
		result := run.QuestionResult{
			QuestionID: q.ID,
			Question:   q.Text,
			Correct:    correct,
		}

		completion, err := r.ask(ctx, model, BuildPrompt(q))
		result.Latency = completion.Elapsed
		if err != nil {
			var unavailable *llm.ServiceUnavailableError
			if len(results) == 0 && errors.As(err, &unavailable) {
				log.Error("inference service unavailable", "error", err)
				return nil, unavailable
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Warn("question failed", "question_id", q.ID, "error", err)
			result.Extracted = run.Unparseable
			result.Error = err.Error()
		} else {
			result.Response = completion.Text
			result.Extracted = run.ExtractAnswer(completion.Text)
			result.IsCorrect = run.Grade(result.Extracted, correct)
		}

		results = append(results, result)
		log.Debug("question answered",
			"question_id", q.ID,
			"extracted", result.Extracted,
			"correct", result.IsCorrect,
			"latency", result.Latency,
		)

		obs.OnProgress(Progress{
			Model:      model,
			QuestionID: q.ID,
			Completed:  i + 1,
			Total:      total,
			Fraction:   float64(i+1) / float64(total),
			Status:     progressStatus(i+1, total, result),
			Elapsed:    time.Since(start),
		})
	}

	finished := time.Now()
	report := run.NewReport(model, results, finished.Sub(start), finished)
	log.Info("run completed",
		"run_id", report.ID,
		"score", report.Score,
		"duration", report.Duration,
	)
	return report, nil
}

// ask applies the runner's retry policy around a single Ask.
func (r *Runner) ask(ctx context.Context, model, prompt string) (llm.Completion, error) {
	var (
		completion llm.Completion
		err        error
	)
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		completion, err = r.client.Ask(ctx, model, prompt)
		if err == nil || ctx.Err() != nil {
			break
		}
	}
	return completion, err
}

func progressStatus(done, total int, res run.QuestionResult) string {
	verdict := "wrong"
	switch {
	case res.Error != "":
		verdict = "failed"
	case res.IsCorrect:
		verdict = "correct"
	case res.Unparsed():
		verdict = "unparseable"
	}
	return fmt.Sprintf("Question %d/%d (%s): %s", done, total, res.QuestionID, verdict)
}
