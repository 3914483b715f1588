package exam

import "strings"

// Label is one of the four option letters of a multiple-choice question.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
)

// Labels lists the valid option letters in presentation order.
var Labels = [4]Label{LabelA, LabelB, LabelC, LabelD}

// ParseLabel normalizes s (case and surrounding space) and reports whether it
// names a valid option.
func ParseLabel(s string) (Label, bool) {
	l := Label(strings.ToUpper(strings.TrimSpace(s)))
	switch l {
	case LabelA, LabelB, LabelC, LabelD:
		return l, true
	}
	return "", false
}

type Question struct {
	ID      string
	Text    string
	Options [4]string // indexed like Labels
}

// Option returns the text of the option with the given label.
func (q Question) Option(l Label) string {
	for i, lbl := range Labels {
		if lbl == l {
			return q.Options[i]
		}
	}
	return ""
}

// AnswerKey maps a question ID to its correct label.
type AnswerKey map[string]Label

// Exam is an ordered question set paired with its answer key.
// It is not modified after Load returns it.
type Exam struct {
	questions []Question
	key       AnswerKey
}

// Questions returns a copy of the questions in declared order.
func (e *Exam) Questions() []Question {
	out := make([]Question, len(e.questions))
	copy(out, e.questions)
	return out
}

// Len returns the number of questions.
func (e *Exam) Len() int {
	return len(e.questions)
}

// CorrectAnswer returns the correct label for a question ID.
func (e *Exam) CorrectAnswer(questionID string) (Label, bool) {
	l, ok := e.key[questionID]
	return l, ok
}
