package analytics

import (
	"time"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
)

// QuestionStat summarizes how every run fared on one question.
type QuestionStat struct {
	QuestionID    string
	Question      string
	SuccessRate   float64
	Difficulty    Difficulty
	Attempts      int
	Unparseable   int
	AvgLatency    time.Duration
	ModelsTested  int
	CommonMistake exam.Label // empty when no wrong letter was given
}

// QuestionAnalytics computes one QuestionStat per question ID, in order of
// first appearance across runs.
func QuestionAnalytics(runs []*run.Report, s Scoring) []QuestionStat {
	type agg struct {
		text        string
		attempts    int
		correct     int
		unparseable int
		latency     time.Duration
		models      map[string]bool
		mistakes    map[exam.Label]int
		mistakeSeen []exam.Label
	}

	var order []string
	byID := make(map[string]*agg)

	for _, r := range runs {
		for _, q := range r.Results {
			a, ok := byID[q.QuestionID]
			if !ok {
				a = &agg{
					text:     q.Question,
					models:   make(map[string]bool),
					mistakes: make(map[exam.Label]int),
				}
				byID[q.QuestionID] = a
				order = append(order, q.QuestionID)
			}

			a.attempts++
			a.latency += q.Latency
			a.models[r.Model] = true

			switch {
			case q.IsCorrect:
				a.correct++
			case q.Unparsed():
				a.unparseable++
			default:
				if a.mistakes[q.Extracted] == 0 {
					a.mistakeSeen = append(a.mistakeSeen, q.Extracted)
				}
				a.mistakes[q.Extracted]++
			}
		}
	}

	stats := make([]QuestionStat, 0, len(order))
	for _, qid := range order {
		a := byID[qid]
		rate := float64(a.correct) / float64(a.attempts) * 100

		var common exam.Label
		best := 0
		for _, l := range a.mistakeSeen {
			if a.mistakes[l] > best {
				best = a.mistakes[l]
				common = l
			}
		}

		stats = append(stats, QuestionStat{
			QuestionID:    qid,
			Question:      a.text,
			SuccessRate:   rate,
			Difficulty:    s.Difficulty(rate),
			Attempts:      a.attempts,
			Unparseable:   a.unparseable,
			AvgLatency:    a.latency / time.Duration(a.attempts),
			ModelsTested:  len(a.models),
			CommonMistake: common,
		})
	}
	return stats
}
