package exam

import (
	"bytes"
	"embed"
	"fmt"
)

//go:embed defaults/questions.csv defaults/answers.csv
var defaults embed.FS

// Default returns the bundled general-knowledge exam.
func Default() *Exam {
	q, err := defaults.ReadFile("defaults/questions.csv")
	if err != nil {
		panic(fmt.Sprintf("exam: bundled questions missing: %v", err))
	}
	a, err := defaults.ReadFile("defaults/answers.csv")
	if err != nil {
		panic(fmt.Sprintf("exam: bundled answers missing: %v", err))
	}
	e, err := Load(bytes.NewReader(q), bytes.NewReader(a))
	if err != nil {
		panic(fmt.Sprintf("exam: bundled exam invalid: %v", err))
	}
	return e
}
