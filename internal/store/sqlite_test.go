package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
	"github.com/llm-exam-tester/backend/internal/store"
)

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(model string, ts time.Time) *run.Report {
	results := []run.QuestionResult{
		{
			QuestionID: "Q1", Question: "First?", Response: "The answer is A",
			Extracted: exam.LabelA, Correct: exam.LabelA, IsCorrect: true, Latency: 1200 * time.Millisecond,
		},
		{
			QuestionID: "Q2", Question: "Second?", Extracted: run.Unparseable, Correct: exam.LabelB,
			Latency: 300 * time.Millisecond, Error: "inference failed",
		},
	}
	return run.NewReport(model, results, 2*time.Second, ts)
}

func TestAppendAndGetRun(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	want := sampleReport("m1", ts)
	if err := s.AppendRun(ctx, want); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.GetRun(ctx, want.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Model != "m1" || got.Score != 50 || got.Duration != 2*time.Second || !got.Timestamp.Equal(ts) {
		t.Errorf("unexpected run header %+v", got)
	}
	if len(got.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got.Results))
	}
	if got.Results[0] != want.Results[0] || got.Results[1] != want.Results[1] {
		t.Errorf("results did not round-trip:\n got %+v\nwant %+v", got.Results, want.Results)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendRun_Duplicate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	r := sampleReport("m1", time.Now())
	if err := s.AppendRun(ctx, r); err != nil {
		t.Fatalf("append: %v", err)
	}

	err := s.AppendRun(ctx, r)
	if !errors.Is(err, store.ErrDuplicateRun) {
		t.Fatalf("expected ErrDuplicateRun, got %v", err)
	}

	runs, err := s.AllRuns(ctx)
	if err != nil {
		t.Fatalf("all runs: %v", err)
	}
	if len(runs) != 1 || len(runs[0].Results) != 2 {
		t.Errorf("duplicate append must not change stored data, got %d runs", len(runs))
	}
}

func TestAllRuns_OrderedByTimestamp(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	late := sampleReport("late", base.Add(2*time.Hour))
	early := sampleReport("early", base)
	mid := sampleReport("mid", base.Add(time.Hour))

	for _, r := range []*run.Report{late, early, mid} {
		if err := s.AppendRun(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	runs, err := s.AllRuns(ctx)
	if err != nil {
		t.Fatalf("all runs: %v", err)
	}

	var models []string
	for _, r := range runs {
		models = append(models, r.Model)
	}
	if fmt.Sprint(models) != "[early mid late]" {
		t.Errorf("unexpected order %v", models)
	}
}

func TestAllRuns_Empty(t *testing.T) {
	s := newStore(t)

	runs, err := s.AllRuns(context.Background())
	if err != nil {
		t.Fatalf("all runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestAppendRun_Concurrent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n*2)

	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			errs <- s.AppendRun(ctx, sampleReport(fmt.Sprintf("m%d", i%3), time.Now()))
		}(i)
		go func() {
			defer wg.Done()
			runs, err := s.AllRuns(ctx)
			if err == nil {
				for _, r := range runs {
					if len(r.Results) != 2 {
						err = fmt.Errorf("run %s observed with %d results", r.ID, len(r.Results))
					}
				}
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent access: %v", err)
		}
	}

	runs, err := s.AllRuns(ctx)
	if err != nil {
		t.Fatalf("all runs: %v", err)
	}
	if len(runs) != n {
		t.Errorf("expected %d runs, got %d", n, len(runs))
	}
}

func TestNewSQLite_InMemory(t *testing.T) {
	s, err := store.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.AppendRun(context.Background(), sampleReport("m", time.Now())); err != nil {
		t.Fatalf("append: %v", err)
	}
	runs, err := s.AllRuns(context.Background())
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d (err %v)", len(runs), err)
	}
}

func TestReadRejectsNewerFormatVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	s, err := store.NewSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	r := sampleReport("m1", time.Now())
	if err := s.AppendRun(ctx, r); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	if _, err := raw.Exec("UPDATE runs SET format_version = 99 WHERE id = ?", r.ID); err != nil {
		t.Fatalf("update version: %v", err)
	}
	raw.Close()

	s, err = store.NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if _, err := s.GetRun(ctx, r.ID); !errors.Is(err, store.ErrUnsupportedFormat) {
		t.Errorf("GetRun: expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := s.AllRuns(ctx); !errors.Is(err, store.ErrUnsupportedFormat) {
		t.Errorf("AllRuns: expected ErrUnsupportedFormat, got %v", err)
	}
}
