package analytics_test

import (
	"math"
	"testing"
	"time"

	"github.com/llm-exam-tester/backend/internal/analytics"
	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
)

var base = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// answer builds a result: extracted == correct means a correct answer.
func answer(qid string, extracted, correct exam.Label, latency time.Duration) run.QuestionResult {
	return run.QuestionResult{
		QuestionID: qid,
		Question:   "Question " + qid,
		Extracted:  extracted,
		Correct:    correct,
		IsCorrect:  run.Grade(extracted, correct),
		Latency:    latency,
	}
}

func report(model string, at time.Duration, results ...run.QuestionResult) *run.Report {
	return run.NewReport(model, results, time.Minute, base.Add(at))
}

// scoredReport has score pct (out of 5 questions) and the given per-question latency.
func scoredReport(model string, at time.Duration, correct int, latency time.Duration) *run.Report {
	var results []run.QuestionResult
	for i := 0; i < 5; i++ {
		extracted := exam.LabelB
		if i < correct {
			extracted = exam.LabelA
		}
		results = append(results, answer(string(rune('1'+i)), extracted, exam.LabelA, latency))
	}
	return report(model, at, results...)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLeaderboard_AveragesPerModel(t *testing.T) {
	runs := []*run.Report{
		scoredReport("m1", 0, 4, time.Second),           // 80%, 1s
		scoredReport("m1", time.Hour, 3, 3*time.Second), // 60%, 3s
	}

	rows := analytics.Leaderboard(runs, analytics.DefaultScoring())
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	r := rows[0]
	if !approx(r.AvgScore, 70) {
		t.Errorf("expected avg score 70, got %v", r.AvgScore)
	}
	if r.AvgLatency != 2*time.Second {
		t.Errorf("expected avg latency 2s, got %v", r.AvgLatency)
	}
	if r.RunCount != 2 || r.Rank != 1 {
		t.Errorf("unexpected count/rank %d/%d", r.RunCount, r.Rank)
	}
	// 0.7 × 70 + 0.3 × (100 − 2 × 10)
	if !approx(r.CombinedScore, 73) {
		t.Errorf("expected combined 73, got %v", r.CombinedScore)
	}
}

func TestLeaderboard_Ordering(t *testing.T) {
	runs := []*run.Report{
		scoredReport("slow-accurate", 0, 5, 20*time.Second), // 0.7×100 + 0 = 70
		scoredReport("fast", 0, 3, 0),                       // 0.7×60 + 30 = 72
		scoredReport("zeta", 0, 4, 5*time.Second),           // 0.7×80 + 15 = 71
		scoredReport("alpha", 0, 4, 5*time.Second),          // same tuple as zeta
	}

	rows := analytics.Leaderboard(runs, analytics.DefaultScoring())

	want := []string{"fast", "alpha", "zeta", "slow-accurate"}
	for i, m := range want {
		if rows[i].Model != m {
			t.Errorf("rank %d: expected %s, got %s", i+1, m, rows[i].Model)
		}
		if rows[i].Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, rows[i].Rank)
		}
	}
}

func TestLeaderboard_TieBrokenByAvgScore(t *testing.T) {
	s := analytics.Scoring{AccuracyWeight: 0.5, SpeedWeight: 0.5, SpeedPenaltyPerSecond: 10, HardBelow: 40, EasyFrom: 70}
	runs := []*run.Report{
		scoredReport("a", 0, 2, 2*time.Second), // 0.5×40 + 0.5×80 = 60
		scoredReport("b", 0, 4, 6*time.Second), // 0.5×80 + 0.5×40 = 60
	}

	rows := analytics.Leaderboard(runs, s)
	if rows[0].Model != "b" {
		t.Errorf("expected higher avg score to win the tie, got %s first", rows[0].Model)
	}
}

func TestLeaderboard_Empty(t *testing.T) {
	if rows := analytics.Leaderboard(nil, analytics.DefaultScoring()); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestSpeedScore_ClampsAtZero(t *testing.T) {
	s := analytics.DefaultScoring()
	if got := s.SpeedScore(30 * time.Second); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := s.SpeedScore(500 * time.Millisecond); !approx(got, 95) {
		t.Errorf("expected 95, got %v", got)
	}
}

func TestDifficultyBuckets(t *testing.T) {
	s := analytics.DefaultScoring()
	tests := []struct {
		rate float64
		want analytics.Difficulty
	}{
		{0, analytics.DifficultyHard},
		{39.9, analytics.DifficultyHard},
		{40, analytics.DifficultyMedium},
		{69.9, analytics.DifficultyMedium},
		{70, analytics.DifficultyEasy},
		{100, analytics.DifficultyEasy},
	}
	for _, tt := range tests {
		if got := s.Difficulty(tt.rate); got != tt.want {
			t.Errorf("Difficulty(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestScoringValidate(t *testing.T) {
	if err := analytics.DefaultScoring().Validate(); err != nil {
		t.Errorf("default scoring invalid: %v", err)
	}
	bad := analytics.DefaultScoring()
	bad.HardBelow = 80
	if err := bad.Validate(); err == nil {
		t.Error("expected error when hard_below exceeds easy_from")
	}
}

func TestQuestionAnalytics(t *testing.T) {
	runs := []*run.Report{
		report("m1", 0,
			answer("Q1", exam.LabelA, exam.LabelA, time.Second),
			answer("Q2", exam.LabelC, exam.LabelB, time.Second),
		),
		report("m2", time.Hour,
			answer("Q1", exam.LabelB, exam.LabelA, 3*time.Second),
			answer("Q2", exam.LabelD, exam.LabelB, time.Second),
			answer("Q3", run.Unparseable, exam.LabelA, time.Second),
		),
		report("m1", 2*time.Hour,
			answer("Q2", exam.LabelD, exam.LabelB, time.Second),
			answer("Q1", exam.LabelA, exam.LabelA, 2*time.Second),
		),
	}

	stats := analytics.QuestionAnalytics(runs, analytics.DefaultScoring())
	if len(stats) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(stats))
	}

	q1, q2, q3 := stats[0], stats[1], stats[2]
	if q1.QuestionID != "Q1" || q2.QuestionID != "Q2" || q3.QuestionID != "Q3" {
		t.Fatalf("expected first-appearance order, got %s %s %s", q1.QuestionID, q2.QuestionID, q3.QuestionID)
	}

	if q1.Attempts != 3 || !approx(q1.SuccessRate, 200.0/3) || q1.Difficulty != analytics.DifficultyMedium {
		t.Errorf("unexpected Q1 stats %+v", q1)
	}
	if q1.AvgLatency != 2*time.Second {
		t.Errorf("expected Q1 avg latency 2s, got %v", q1.AvgLatency)
	}
	if q1.ModelsTested != 2 {
		t.Errorf("expected 2 models for Q1, got %d", q1.ModelsTested)
	}
	if q1.CommonMistake != exam.LabelB {
		t.Errorf("expected Q1 common mistake B, got %q", q1.CommonMistake)
	}

	if q2.SuccessRate != 0 || q2.Difficulty != analytics.DifficultyHard {
		t.Errorf("unexpected Q2 stats %+v", q2)
	}
	if q2.CommonMistake != exam.LabelD {
		t.Errorf("expected Q2 common mistake D (2 of 3), got %q", q2.CommonMistake)
	}

	if q3.Unparseable != 1 || q3.CommonMistake != "" {
		t.Errorf("unparseable answers must not count as a mistake label: %+v", q3)
	}
}

func TestQuestionAnalytics_MistakeTieUsesFirstSeen(t *testing.T) {
	runs := []*run.Report{
		report("m1", 0, answer("Q1", exam.LabelC, exam.LabelA, 0)),
		report("m2", time.Hour, answer("Q1", exam.LabelB, exam.LabelA, 0)),
	}

	stats := analytics.QuestionAnalytics(runs, analytics.DefaultScoring())
	if stats[0].CommonMistake != exam.LabelC {
		t.Errorf("expected first-seen C on a tie, got %q", stats[0].CommonMistake)
	}
}

func matrixRuns() []*run.Report {
	return []*run.Report{
		report("m2", 0,
			answer("Q1", exam.LabelA, exam.LabelA, 0),
			answer("Q2", exam.LabelA, exam.LabelB, 0),
		),
		report("m1", time.Hour,
			answer("Q1", exam.LabelA, exam.LabelA, 0),
			answer("Q2", exam.LabelB, exam.LabelB, 0),
		),
		report("m2", 2*time.Hour,
			answer("Q1", exam.LabelA, exam.LabelA, 0),
			answer("Q3", exam.LabelC, exam.LabelC, 0),
		),
	}
}

func TestBuildMatrix_Latest(t *testing.T) {
	runs := matrixRuns()

	m, err := analytics.BuildMatrix(runs, analytics.MatrixLatest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.Columns) != 3 || m.Columns[0] != "Q1" || m.Columns[1] != "Q2" || m.Columns[2] != "Q3" {
		t.Fatalf("unexpected columns %v", m.Columns)
	}
	if len(m.Rows) != 2 {
		t.Fatalf("expected one row per model, got %d", len(m.Rows))
	}

	m1, m2 := m.Rows[0], m.Rows[1]
	if m1.Model != "m1" || m2.Model != "m2" {
		t.Fatalf("expected rows sorted by model, got %s, %s", m1.Model, m2.Model)
	}
	if m2.RunID != runs[2].ID {
		t.Errorf("expected latest m2 run %s, got %s", runs[2].ID, m2.RunID)
	}
	if m2.Cells[1] != analytics.CellBlank || m2.Cells[1].String() != "" {
		t.Errorf("expected blank cell for missing Q2, got %q", m2.Cells[1])
	}
	if m2.Cells[2] != analytics.CellCorrect || m2.Total != 2 {
		t.Errorf("unexpected m2 row %+v", m2)
	}
}

func TestBuildMatrix_All(t *testing.T) {
	runs := matrixRuns()

	m, err := analytics.BuildMatrix(runs, analytics.MatrixAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Rows) != len(runs) {
		t.Fatalf("expected one row per run, got %d", len(m.Rows))
	}
	if m.Rows[0].Cells[1] != analytics.CellIncorrect || m.Rows[0].Cells[1].String() != "0" {
		t.Errorf("expected 0 for the wrong Q2 answer, got %q", m.Rows[0].Cells[1])
	}
	if m.Rows[0].Cells[2] != analytics.CellBlank {
		t.Error("expected blank cell, not 0, for a question the run did not include")
	}
}

func TestBuildMatrix_RoundTripsScore(t *testing.T) {
	runs := []*run.Report{
		scoredReport("a", 0, 3, 0),
		scoredReport("b", 0, 5, 0),
		scoredReport("a", time.Hour, 1, 0),
	}

	m, err := analytics.BuildMatrix(runs, analytics.MatrixLatest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	latest := map[string]*run.Report{"a": runs[2], "b": runs[1]}
	for _, row := range m.Rows {
		sum := 0
		for _, c := range row.Cells {
			if c == analytics.CellCorrect {
				sum++
			}
		}
		r := latest[row.Model]
		if sum != row.Total {
			t.Errorf("%s: total %d does not match cells %d", row.Model, row.Total, sum)
		}
		if !approx(float64(sum), r.Score/100*float64(len(r.Results))) {
			t.Errorf("%s: cells sum %d does not reproduce score %v", row.Model, sum, r.Score)
		}
	}
}

func TestParseMatrixMode(t *testing.T) {
	if m, err := analytics.ParseMatrixMode(""); err != nil || m != analytics.MatrixLatest {
		t.Errorf("expected latest default, got %q %v", m, err)
	}
	if m, err := analytics.ParseMatrixMode("all"); err != nil || m != analytics.MatrixAll {
		t.Errorf("expected all, got %q %v", m, err)
	}
	if _, err := analytics.ParseMatrixMode("newest"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if _, err := analytics.BuildMatrix(nil, "bogus"); err == nil {
		t.Error("expected BuildMatrix to reject unknown mode")
	}
}

func TestHistoryAndSummary(t *testing.T) {
	runs := []*run.Report{
		scoredReport("m1", 0, 4, time.Second),
		scoredReport("m2", time.Hour, 5, time.Second),
		scoredReport("m1", 2*time.Hour, 2, time.Second),
	}

	h := analytics.History(runs)
	if len(h) != 3 || h[0].RunID != runs[2].ID || h[2].RunID != runs[0].ID {
		t.Errorf("expected newest first, got %+v", h)
	}
	if h[0].Correct != 2 || h[0].Total != 5 {
		t.Errorf("unexpected counts %d/%d", h[0].Correct, h[0].Total)
	}

	s := analytics.Summarize(runs)
	if s.TotalRuns != 3 || s.Models != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
	if !approx(s.AvgScore, (80+100+40)/3.0) {
		t.Errorf("unexpected avg score %v", s.AvgScore)
	}
	if s.BestModel != "m2" || s.BestModelAvg != 100 {
		t.Errorf("expected best model m2 at 100, got %s at %v", s.BestModel, s.BestModelAvg)
	}

	if empty := analytics.Summarize(nil); empty.TotalRuns != 0 || empty.BestModel != "" {
		t.Errorf("expected zero summary, got %+v", empty)
	}
}
