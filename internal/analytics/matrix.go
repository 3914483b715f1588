package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/run"
)

type MatrixMode string

const (
	MatrixLatest MatrixMode = "latest" // one row per model, its most recent run
	MatrixAll    MatrixMode = "all"    // one row per run
)

// ParseMatrixMode accepts "latest" (also the empty string) and "all".
func ParseMatrixMode(s string) (MatrixMode, error) {
	switch MatrixMode(s) {
	case MatrixLatest, "":
		return MatrixLatest, nil
	case MatrixAll:
		return MatrixAll, nil
	}
	return "", fmt.Errorf("unknown matrix mode %q (want latest or all)", s)
}

// Cell is one question outcome in the matrix.
type Cell uint8

const (
	CellBlank Cell = iota // the run did not include the question
	CellIncorrect
	CellCorrect
)

func (c Cell) String() string {
	switch c {
	case CellCorrect:
		return "1"
	case CellIncorrect:
		return "0"
	}
	return ""
}

type MatrixRow struct {
	Model     string
	RunID     string
	Timestamp time.Time
	Cells     []Cell // aligned with Matrix.Columns
	Total     int    // number of CellCorrect
}

// Matrix is the wide correctness table: one column per question ID.
type Matrix struct {
	Mode    MatrixMode
	Columns []string
	Rows    []MatrixRow
}

// BuildMatrix lays runs out as a matrix. Columns are every question ID seen
// in any run, in order of first appearance. In latest mode rows are sorted
// by model name; in all mode they follow the order of runs.
func BuildMatrix(runs []*run.Report, mode MatrixMode) (*Matrix, error) {
	if mode != MatrixLatest && mode != MatrixAll {
		return nil, fmt.Errorf("unknown matrix mode %q", mode)
	}

	var columns []string
	index := make(map[string]int)
	for _, r := range runs {
		for _, q := range r.Results {
			if _, ok := index[q.QuestionID]; !ok {
				index[q.QuestionID] = len(columns)
				columns = append(columns, q.QuestionID)
			}
		}
	}

	selected := runs
	if mode == MatrixLatest {
		selected = latestPerModel(runs)
	}

	m := &Matrix{Mode: mode, Columns: columns, Rows: make([]MatrixRow, 0, len(selected))}
	for _, r := range selected {
		row := MatrixRow{
			Model:     r.Model,
			RunID:     r.ID,
			Timestamp: r.Timestamp,
			Cells:     make([]Cell, len(columns)),
		}
		for _, q := range r.Results {
			c := CellIncorrect
			if q.IsCorrect {
				c = CellCorrect
				row.Total++
			}
			row.Cells[index[q.QuestionID]] = c
		}
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}

// latestPerModel keeps the newest run of each model. Runs are expected in
// timestamp order; on equal timestamps the later one in the slice wins.
func latestPerModel(runs []*run.Report) []*run.Report {
	latest := make(map[string]*run.Report)
	for _, r := range runs {
		if cur, ok := latest[r.Model]; !ok || !r.Timestamp.Before(cur.Timestamp) {
			latest[r.Model] = r
		}
	}

	out := make([]*run.Report, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out
}
