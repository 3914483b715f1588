package run_test

import (
	"testing"
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
)

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		response string
		want     exam.Label
	}{
		{"The answer is A", exam.LabelA},
		{"I think C", exam.LabelC},
		{"I'm not sure", run.Unparseable},
		{"", run.Unparseable},
		{"Answer: D", exam.LabelD},
		{"answer: b", exam.LabelB},
		{"ANSWER IS c.", exam.LabelC},
		{"ANSWER IS b", exam.LabelB},
		{"Answer is c", exam.LabelC},
		{"My answer is (c)", exam.LabelC},
		{"The answer is b.", exam.LabelB},
		{"answer: b because it orbits", exam.LabelB},
		{"b", exam.LabelB},
		{"c.", exam.LabelC},
		{"  (d)\n", exam.LabelD},
		{"**a**", exam.LabelA},
		{"e", run.Unparseable},
		{"Final answer: **B**", exam.LabelB},
		{"The correct answer is (C).", exam.LabelC},
		{"Option A looks tempting, but the answer is B", exam.LabelB},
		{"A", exam.LabelA},
		{"B) Mars", exam.LabelB},
		{"the answer is a tricky one, I pick D", exam.LabelD},
		{"<think>Maybe A? No wait.</think>C", exam.LabelC},
		{"<THINK>A or B</THINK> Answer: d", exam.LabelD},
		{"<think>A is wrong", run.Unparseable},
		{"AB CD", run.Unparseable},
		{"B12 is a vitamin", run.Unparseable},
	}

	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			if got := run.ExtractAnswer(tt.response); got != tt.want {
				t.Errorf("ExtractAnswer(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}

func TestExtractAnswer_Deterministic(t *testing.T) {
	const response = "Hmm, between B and C... Answer: C"
	first := run.ExtractAnswer(response)
	for i := 0; i < 50; i++ {
		if got := run.ExtractAnswer(response); got != first {
			t.Fatalf("iteration %d: got %q, want %q", i, got, first)
		}
	}
}

func TestGrade(t *testing.T) {
	if !run.Grade(exam.LabelA, exam.Label("a")) {
		t.Error("expected case-insensitive match")
	}
	if run.Grade(exam.LabelB, exam.LabelA) {
		t.Error("expected mismatch")
	}
	if run.Grade(run.Unparseable, exam.LabelA) {
		t.Error("expected unparseable to be incorrect")
	}
}

func TestNewReport_Score(t *testing.T) {
	results := []run.QuestionResult{
		{QuestionID: "Q1", IsCorrect: true, Latency: time.Second},
		{QuestionID: "Q2", IsCorrect: false, Latency: 3 * time.Second},
		{QuestionID: "Q3", IsCorrect: true, Latency: 2 * time.Second},
		{QuestionID: "Q4", IsCorrect: false, Extracted: run.Unparseable},
	}

	r := run.NewReport("m1", results, 10*time.Second, time.Now())

	if r.ID == "" {
		t.Error("expected generated ID")
	}
	if r.Score != 50 {
		t.Errorf("expected score 50, got %v", r.Score)
	}
	if r.CorrectCount() != 2 {
		t.Errorf("expected 2 correct, got %d", r.CorrectCount())
	}
	if r.AvgLatency() != 1500*time.Millisecond {
		t.Errorf("expected avg latency 1.5s, got %v", r.AvgLatency())
	}
	if !results[3].Unparsed() || results[1].Unparsed() {
		t.Error("Unparsed should only be true for the sentinel")
	}
}

func TestNewReport_UniqueIDs(t *testing.T) {
	a := run.NewReport("m", nil, 0, time.Now())
	b := run.NewReport("m", nil, 0, time.Now())
	if a.ID == b.ID {
		t.Error("expected distinct run IDs")
	}
	if a.Score != 0 {
		t.Errorf("expected 0 score for empty run, got %v", a.Score)
	}
}
