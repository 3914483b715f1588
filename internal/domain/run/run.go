package run

import (
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/id"
)

// Unparseable is recorded as the extracted answer when no option letter
// could be found in a response, or when the model could not be asked.
const Unparseable exam.Label = "UNPARSEABLE"

// QuestionResult is the outcome of one question within a run.
type QuestionResult struct {
	QuestionID string
	Question   string
	Response   string
	Extracted  exam.Label
	Correct    exam.Label
	IsCorrect  bool
	Latency    time.Duration
	Error      string // inference failure, empty on success
}

// Unparsed reports whether no answer letter was obtained for the question.
func (r QuestionResult) Unparsed() bool {
	return r.Extracted == Unparseable
}

// Report is a completed run of one model through one exam.
type Report struct {
	ID        string
	Model     string
	Results   []QuestionResult
	Score     float64 // percentage correct, 0-100
	Duration  time.Duration
	Timestamp time.Time
}

// NewReport assembles a report with a fresh ID and computes its score.
func NewReport(model string, results []QuestionResult, duration time.Duration, timestamp time.Time) *Report {
	return &Report{
		ID:        id.GenerateID(),
		Model:     model,
		Results:   results,
		Score:     Score(results),
		Duration:  duration,
		Timestamp: timestamp,
	}
}

// Score returns correct / total × 100, or 0 for no results.
func Score(results []QuestionResult) float64 {
	if len(results) == 0 {
		return 0
	}
	return float64(countCorrect(results)) / float64(len(results)) * 100
}

func countCorrect(results []QuestionResult) int {
	n := 0
	for _, r := range results {
		if r.IsCorrect {
			n++
		}
	}
	return n
}

// CorrectCount returns how many questions were answered correctly.
func (r *Report) CorrectCount() int {
	return countCorrect(r.Results)
}

// AvgLatency is the mean response latency over the run's questions.
func (r *Report) AvgLatency() time.Duration {
	if len(r.Results) == 0 {
		return 0
	}
	var total time.Duration
	for _, q := range r.Results {
		total += q.Latency
	}
	return total / time.Duration(len(r.Results))
}
