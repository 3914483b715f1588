package exam

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyExam is returned when a load produces zero questions.
var ErrEmptyExam = errors.New("exam has no questions")

// SchemaError reports a tabular source that does not have the required shape.
type SchemaError struct {
	Source  string   // "questions" or "answers"
	Missing []string // required columns not present in the header
	Row     int      // 1-based data row for cell-level problems, 0 otherwise
	Reason  string
	Wrapped error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: schema error", e.Source)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing columns %s", strings.Join(e.Missing, ", "))
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, ": %v", e.Wrapped)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Wrapped
}

// IntegrityError reports questions and answers that do not line up.
type IntegrityError struct {
	Unanswered     []string // question IDs without an answer-key entry
	UnknownAnswers []string // answer-key IDs without a question
	Duplicates     []string // IDs that occur more than once
	InvalidLabels  []string // answer-key IDs whose label is not A-D
}

func (e *IntegrityError) Error() string {
	var parts []string
	if len(e.Unanswered) > 0 {
		parts = append(parts, "no answer for "+strings.Join(e.Unanswered, ", "))
	}
	if len(e.UnknownAnswers) > 0 {
		parts = append(parts, "answers for unknown questions "+strings.Join(e.UnknownAnswers, ", "))
	}
	if len(e.Duplicates) > 0 {
		parts = append(parts, "duplicate ids "+strings.Join(e.Duplicates, ", "))
	}
	if len(e.InvalidLabels) > 0 {
		parts = append(parts, "invalid correct_answer for "+strings.Join(e.InvalidLabels, ", "))
	}
	return "exam integrity error: " + strings.Join(parts, "; ")
}

func (e *IntegrityError) empty() bool {
	return len(e.Unanswered) == 0 && len(e.UnknownAnswers) == 0 &&
		len(e.Duplicates) == 0 && len(e.InvalidLabels) == 0
}
