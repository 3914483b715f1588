package exam

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	questionColumns = []string{"id", "question", "option_a", "option_b", "option_c", "option_d"}
	answerColumns   = []string{"id", "correct_answer"}
)

// Load reads a questions table and an answers table (CSV with a header row)
// and returns a validated Exam. Column names are matched case-insensitively
// and extra columns are ignored.
func Load(questions, answers io.Reader) (*Exam, error) {
	qs, err := readQuestions(questions)
	if err != nil {
		return nil, err
	}
	keyRows, err := readAnswers(answers)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrEmptyExam
	}

	key, err := buildKey(qs, keyRows)
	if err != nil {
		return nil, err
	}
	return &Exam{questions: qs, key: key}, nil
}

// LoadFiles is Load over two files on disk.
func LoadFiles(questionsPath, answersPath string) (*Exam, error) {
	qf, err := os.Open(questionsPath)
	if err != nil {
		return nil, fmt.Errorf("open questions: %w", err)
	}
	defer qf.Close()

	af, err := os.Open(answersPath)
	if err != nil {
		return nil, fmt.Errorf("open answers: %w", err)
	}
	defer af.Close()

	return Load(qf, af)
}

// ============================================================================
// Tables
// ============================================================================

type table struct {
	source string
	cols   map[string]int
	rows   [][]string
}

func readTable(source string, r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Source: source, Missing: required, Reason: "no header row"}
	}
	if err != nil {
		return nil, &SchemaError{Source: source, Reason: "unreadable header", Wrapped: err}
	}

	t := &table{source: source, cols: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if _, dup := t.cols[name]; !dup {
			t.cols[name] = i
		}
	}

	var missing []string
	for _, c := range required {
		if _, ok := t.cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SchemaError{Source: source, Row: len(t.rows) + 1, Reason: "malformed row", Wrapped: err}
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// cell returns the trimmed value of column col in data row i, or a
// SchemaError when it is blank.
func (t *table) cell(i int, col string) (string, error) {
	rec := t.rows[i]
	idx := t.cols[col]
	v := ""
	if idx < len(rec) {
		v = strings.TrimSpace(rec[idx])
	}
	if v == "" {
		return "", &SchemaError{Source: t.source, Row: i + 1, Reason: col + " is empty"}
	}
	return v, nil
}

func readQuestions(r io.Reader) ([]Question, error) {
	t, err := readTable("questions", r, questionColumns)
	if err != nil {
		return nil, err
	}

	qs := make([]Question, 0, len(t.rows))
	for i := range t.rows {
		var q Question
		if q.ID, err = t.cell(i, "id"); err != nil {
			return nil, err
		}
		if q.Text, err = t.cell(i, "question"); err != nil {
			return nil, err
		}
		for j, col := range questionColumns[2:] {
			if q.Options[j], err = t.cell(i, col); err != nil {
				return nil, err
			}
		}
		qs = append(qs, q)
	}
	return qs, nil
}

type keyRow struct {
	id    string
	label string
}

func readAnswers(r io.Reader) ([]keyRow, error) {
	t, err := readTable("answers", r, answerColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]keyRow, 0, len(t.rows))
	for i := range t.rows {
		var kr keyRow
		if kr.id, err = t.cell(i, "id"); err != nil {
			return nil, err
		}
		if kr.label, err = t.cell(i, "correct_answer"); err != nil {
			return nil, err
		}
		rows = append(rows, kr)
	}
	return rows, nil
}

// buildKey cross-checks questions against answer rows.
func buildKey(qs []Question, rows []keyRow) (AnswerKey, error) {
	ierr := &IntegrityError{}

	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		if seen[q.ID] {
			ierr.Duplicates = append(ierr.Duplicates, q.ID)
		}
		seen[q.ID] = true
	}

	key := make(AnswerKey, len(rows))
	for _, r := range rows {
		if _, dup := key[r.id]; dup {
			ierr.Duplicates = append(ierr.Duplicates, r.id)
			continue
		}
		if !seen[r.id] {
			ierr.UnknownAnswers = append(ierr.UnknownAnswers, r.id)
		}
		l, ok := ParseLabel(r.label)
		if !ok {
			ierr.InvalidLabels = append(ierr.InvalidLabels, r.id)
		}
		key[r.id] = l
	}

	for _, q := range qs {
		if _, ok := key[q.ID]; !ok {
			ierr.Unanswered = append(ierr.Unanswered, q.ID)
		}
	}

	if !ierr.empty() {
		return nil, ierr
	}
	return key, nil
}
