package analytics

import (
	"sort"
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/run"
)

// LeaderboardRow ranks one model over all of its runs.
type LeaderboardRow struct {
	Rank          int
	Model         string
	AvgScore      float64
	AvgLatency    time.Duration
	CombinedScore float64
	RunCount      int
}

// Leaderboard groups runs by model and ranks models by combined score,
// then average score, then name. Ranks are 1..n with no shared places.
func Leaderboard(runs []*run.Report, s Scoring) []LeaderboardRow {
	type agg struct {
		scoreSum   float64
		latencySum time.Duration
		n          int
	}

	byModel := make(map[string]*agg)
	for _, r := range runs {
		a, ok := byModel[r.Model]
		if !ok {
			a = &agg{}
			byModel[r.Model] = a
		}
		a.scoreSum += r.Score
		a.latencySum += r.AvgLatency()
		a.n++
	}

	rows := make([]LeaderboardRow, 0, len(byModel))
	for model, a := range byModel {
		avgScore := a.scoreSum / float64(a.n)
		avgLatency := a.latencySum / time.Duration(a.n)
		rows = append(rows, LeaderboardRow{
			Model:         model,
			AvgScore:      avgScore,
			AvgLatency:    avgLatency,
			CombinedScore: s.Combined(avgScore, avgLatency),
			RunCount:      a.n,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CombinedScore != rows[j].CombinedScore {
			return rows[i].CombinedScore > rows[j].CombinedScore
		}
		if rows[i].AvgScore != rows[j].AvgScore {
			return rows[i].AvgScore > rows[j].AvgScore
		}
		return rows[i].Model < rows[j].Model
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
