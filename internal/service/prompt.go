package service

import (
	"fmt"
	"strings"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
)

// BuildPrompt renders one multiple-choice question for the model.
// Kept short and directive: small local models follow a final one-line
// instruction better than a long preamble.
func BuildPrompt(q exam.Question) string {
	var b strings.Builder

	b.WriteString("Answer the following multiple-choice question.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", q.Text)
	for i, l := range exam.Labels {
		fmt.Fprintf(&b, "%s) %s\n", l, q.Options[i])
	}
	b.WriteString("\nRespond with only the letter of the correct option (A, B, C, or D).")

	return b.String()
}
