package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
	"github.com/llm-exam-tester/backend/internal/llm"
	"github.com/llm-exam-tester/backend/internal/service"
)

// ============================================================================
// Fakes
// ============================================================================

type reply struct {
	text string
	err  error
}

// scriptedClient answers Ask calls with replies in order, repeating the
// last one once the script runs out.
type scriptedClient struct {
	mu      sync.Mutex
	replies []reply
	calls   int
	prompts []string
	onAsk   func(call int)
}

func (c *scriptedClient) ListModels(context.Context) ([]string, error) {
	return []string{"fake"}, nil
}

func (c *scriptedClient) Ask(_ context.Context, model, prompt string) (llm.Completion, error) {
	c.mu.Lock()
	call := c.calls
	c.calls++
	c.prompts = append(c.prompts, prompt)
	r := c.replies[min(call, len(c.replies)-1)]
	hook := c.onAsk
	c.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if r.err != nil {
		return llm.Completion{}, r.err
	}
	return llm.Completion{Text: r.text, Elapsed: 100 * time.Millisecond}, nil
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoQuestionExam(t *testing.T) *exam.Exam {
	t.Helper()
	questions := "id,question,option_a,option_b,option_c,option_d\n" +
		"Q1,First?,a1,b1,c1,d1\n" +
		"Q2,Second?,a2,b2,c2,d2\n"
	answers := "id,correct_answer\nQ1,A\nQ2,B\n"
	e, err := exam.Load(strings.NewReader(questions), strings.NewReader(answers))
	if err != nil {
		t.Fatalf("load exam: %v", err)
	}
	return e
}

func unavailable() error {
	return &llm.InferenceError{
		Model:   "m",
		Reason:  "request failed",
		Wrapped: &llm.ServiceUnavailableError{URL: "http://localhost:11434", Wrapped: errors.New("connection refused")},
	}
}

// ============================================================================
// Runner
// ============================================================================

func TestRun_ScoresAndExtracts(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: "The answer is A"}, {text: "I think C"}}}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	report, err := r.Run(context.Background(), "m1", twoQuestionExam(t), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Score != 50 {
		t.Errorf("expected score 50, got %v", report.Score)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	q1, q2 := report.Results[0], report.Results[1]
	if !q1.IsCorrect || q1.Extracted != exam.LabelA {
		t.Errorf("Q1: expected correct A, got %+v", q1)
	}
	if q2.IsCorrect || q2.Extracted != exam.LabelC || q2.Correct != exam.LabelB {
		t.Errorf("Q2: expected wrong C (key B), got %+v", q2)
	}
	if report.Model != "m1" || report.ID == "" {
		t.Errorf("unexpected report identity %q/%q", report.Model, report.ID)
	}
	if q1.Latency != 100*time.Millisecond {
		t.Errorf("expected latency from completion, got %v", q1.Latency)
	}
}

func TestRun_UnparseableResponse(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: "I'm not sure"}}}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	report, err := r.Run(context.Background(), "m1", twoQuestionExam(t), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, res := range report.Results {
		if res.Extracted != run.Unparseable || res.IsCorrect {
			t.Errorf("expected unparseable, got %+v", res)
		}
		if res.Error != "" {
			t.Errorf("unparseable is not an error, got %q", res.Error)
		}
	}
	if report.Score != 0 {
		t.Errorf("expected score 0, got %v", report.Score)
	}
}

func TestRun_PromptContainsOptions(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: "A"}}}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	if _, err := r.Run(context.Background(), "m1", twoQuestionExam(t), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	prompt := client.prompts[0]
	for _, want := range []string{"First?", "A) a1", "B) b1", "C) c1", "D) d1"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestRun_AskFailureContinues(t *testing.T) {
	client := &scriptedClient{replies: []reply{
		{text: "A"},
		{err: &llm.InferenceError{Model: "m1", Reason: "status 500"}},
	}}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	report, err := r.Run(context.Background(), "m1", twoQuestionExam(t), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	failed := report.Results[1]
	if failed.Error == "" || failed.Extracted != run.Unparseable || failed.IsCorrect {
		t.Errorf("expected recorded failure, got %+v", failed)
	}
	if report.Score != 50 {
		t.Errorf("expected score 50, got %v", report.Score)
	}
}

func TestRun_UnavailableBeforeFirstQuestion(t *testing.T) {
	client := &scriptedClient{replies: []reply{{err: unavailable()}}}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	report, err := r.Run(context.Background(), "m1", twoQuestionExam(t), nil)
	if report != nil {
		t.Errorf("expected no report, got %+v", report)
	}
	var unavail *llm.ServiceUnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ServiceUnavailableError, got %v", err)
	}
	if client.callCount() != 1 {
		t.Errorf("expected run to stop after first call, got %d calls", client.callCount())
	}
}

func TestRun_UnavailableMidRunIsRecorded(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: "A"}, {err: unavailable()}}}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	report, err := r.Run(context.Background(), "m1", twoQuestionExam(t), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Results[1].Error == "" {
		t.Errorf("expected error recorded on Q2")
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &scriptedClient{
		replies: []reply{{text: "A"}},
		onAsk:   func(int) { cancel() },
	}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	report, err := r.Run(ctx, "m1", twoQuestionExam(t), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report != nil {
		t.Errorf("expected no report on cancel")
	}
	if client.callCount() != 1 {
		t.Errorf("expected one call before cancellation, got %d", client.callCount())
	}
}

func TestRun_Progress(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: "A"}, {text: "B"}}}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	var events []service.Progress
	obs := service.ProgressFunc(func(p service.Progress) { events = append(events, p) })

	if _, err := r.Run(context.Background(), "m1", twoQuestionExam(t), obs); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Fraction != 0.5 || events[1].Fraction != 1 {
		t.Errorf("unexpected fractions %v, %v", events[0].Fraction, events[1].Fraction)
	}
	if events[1].Completed != 2 || events[1].Total != 2 || events[1].QuestionID != "Q2" {
		t.Errorf("unexpected final event %+v", events[1])
	}
	if !strings.Contains(events[0].Status, "1/2") {
		t.Errorf("expected status text with position, got %q", events[0].Status)
	}
}

func TestRun_ChannelObserverDoesNotBlock(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: "A"}}}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	ch := make(chan service.Progress, 1)
	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), "m1", twoQuestionExam(t), service.ChannelObserver(ch))
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner blocked on a full progress channel")
	}
	if p := <-ch; p.Completed != 1 {
		t.Errorf("expected first event buffered, got %+v", p)
	}
}

func TestRun_Retries(t *testing.T) {
	client := &scriptedClient{replies: []reply{
		{err: &llm.InferenceError{Model: "m1", Reason: "status 500"}},
		{text: "A"},
		{text: "B"},
	}}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{MaxAttempts: 2})

	report, err := r.Run(context.Background(), "m1", twoQuestionExam(t), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Score != 100 {
		t.Errorf("expected retry to recover, score %v", report.Score)
	}
	if client.callCount() != 3 {
		t.Errorf("expected 3 calls, got %d", client.callCount())
	}
}

func TestRun_DurationAndTimestampShareOneClock(t *testing.T) {
	client := &scriptedClient{
		replies: []reply{{text: "A"}},
		onAsk:   func(int) { time.Sleep(10 * time.Millisecond) },
	}
	r := service.NewRunner(client, discardLogger(), service.RunnerOptions{})

	var last service.Progress
	obs := service.ProgressFunc(func(p service.Progress) { last = p })

	before := time.Now()
	report, err := r.Run(context.Background(), "m1", twoQuestionExam(t), obs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Duration < 20*time.Millisecond {
		t.Errorf("expected duration to cover both questions, got %v", report.Duration)
	}
	if last.Elapsed > report.Duration {
		t.Errorf("last progress elapsed %v exceeds run duration %v", last.Elapsed, report.Duration)
	}
	if report.Timestamp.Before(before.Add(report.Duration)) {
		t.Errorf("timestamp %v is earlier than start + duration", report.Timestamp)
	}
}
