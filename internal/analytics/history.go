package analytics

import (
	"sort"
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/run"
)

// HistoryRow is the one-line summary of a stored run.
type HistoryRow struct {
	RunID      string
	Model      string
	Timestamp  time.Time
	Score      float64
	Correct    int
	Total      int
	AvgLatency time.Duration
	Duration   time.Duration
}

// History lists runs newest first.
func History(runs []*run.Report) []HistoryRow {
	rows := make([]HistoryRow, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, HistoryRow{
			RunID:      r.ID,
			Model:      r.Model,
			Timestamp:  r.Timestamp,
			Score:      r.Score,
			Correct:    r.CorrectCount(),
			Total:      len(r.Results),
			AvgLatency: r.AvgLatency(),
			Duration:   r.Duration,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})
	return rows
}

// Summary is the headline figures over all runs.
type Summary struct {
	TotalRuns    int
	Models       int
	AvgScore     float64
	BestModel    string // highest mean score, ties broken by name
	BestModelAvg float64
}

func Summarize(runs []*run.Report) Summary {
	var s Summary
	if len(runs) == 0 {
		return s
	}

	type agg struct {
		sum float64
		n   int
	}
	byModel := make(map[string]*agg)
	var total float64
	for _, r := range runs {
		total += r.Score
		a, ok := byModel[r.Model]
		if !ok {
			a = &agg{}
			byModel[r.Model] = a
		}
		a.sum += r.Score
		a.n++
	}

	s.TotalRuns = len(runs)
	s.Models = len(byModel)
	s.AvgScore = total / float64(len(runs))

	first := true
	for model, a := range byModel {
		avg := a.sum / float64(a.n)
		if first || avg > s.BestModelAvg || (avg == s.BestModelAvg && model < s.BestModel) {
			s.BestModel = model
			s.BestModelAvg = avg
			first = false
		}
	}
	return s
}
