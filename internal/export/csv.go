// Package export renders derived views as delimited text for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/llm-exam-tester/backend/internal/analytics"
	"github.com/llm-exam-tester/backend/internal/domain/run"
)

// MatrixMeta holds the fixed descriptive columns written before the
// question columns of a matrix export.
type MatrixMeta struct {
	Type  string // deployment, e.g. "Lokaal"
	RAG   string // "Yes"/"No"
	OneBy string // questions asked one by one: "Yes"/"No"
}

func DefaultMatrixMeta() MatrixMeta {
	return MatrixMeta{Type: "Lokaal", RAG: "No", OneBy: "Yes"}
}

func formatFloat(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

func seconds(d time.Duration) string {
	return formatFloat(d.Seconds(), 3)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Leaderboard writes rank, model, avg_score, avg_response_time (s),
// combined_score, test_count.
func Leaderboard(w io.Writer, rows []analytics.LeaderboardRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.Itoa(r.Rank),
			r.Model,
			formatFloat(r.AvgScore, 2),
			seconds(r.AvgLatency),
			formatFloat(r.CombinedScore, 2),
			strconv.Itoa(r.RunCount),
		})
	}
	return writeAll(w,
		[]string{"rank", "model", "avg_score", "avg_response_time", "combined_score", "test_count"},
		out)
}

// QuestionAnalytics writes one line per question.
func QuestionAnalytics(w io.Writer, stats []analytics.QuestionStat) error {
	out := make([][]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, []string{
			s.QuestionID,
			s.Question,
			formatFloat(s.SuccessRate, 1),
			string(s.Difficulty),
			strconv.Itoa(s.Attempts),
			strconv.Itoa(s.Unparseable),
			seconds(s.AvgLatency),
			strconv.Itoa(s.ModelsTested),
			string(s.CommonMistake),
		})
	}
	return writeAll(w,
		[]string{"question_id", "question", "success_rate", "difficulty", "attempts", "unparseable",
			"avg_response_time", "models_tested", "common_mistake"},
		out)
}

// Matrix writes the wide correctness table. In all mode each line also
// carries the run ID and timestamp so repeated runs stay distinguishable.
func Matrix(w io.Writer, m *analytics.Matrix, meta MatrixMeta) error {
	header := []string{"Model"}
	if m.Mode == analytics.MatrixAll {
		header = append(header, "Run", "Timestamp")
	}
	header = append(header, "Type", "RAG", "1by1")
	header = append(header, m.Columns...)
	header = append(header, "Total")

	out := make([][]string, 0, len(m.Rows))
	for _, r := range m.Rows {
		line := []string{r.Model}
		if m.Mode == analytics.MatrixAll {
			line = append(line, r.RunID, timestamp(r.Timestamp))
		}
		line = append(line, meta.Type, meta.RAG, meta.OneBy)
		for _, c := range r.Cells {
			line = append(line, c.String())
		}
		line = append(line, strconv.Itoa(r.Total))
		out = append(out, line)
	}
	return writeAll(w, header, out)
}

// History writes one line per run.
func History(w io.Writer, rows []analytics.HistoryRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.RunID,
			r.Model,
			timestamp(r.Timestamp),
			formatFloat(r.Score, 2),
			strconv.Itoa(r.Correct),
			strconv.Itoa(r.Total),
			seconds(r.AvgLatency),
			seconds(r.Duration),
		})
	}
	return writeAll(w,
		[]string{"test_id", "model", "timestamp", "score_percentage", "correct", "total",
			"avg_response_time", "total_time"},
		out)
}

// RunDetail writes the per-question results of one run.
func RunDetail(w io.Writer, r *run.Report) error {
	out := make([][]string, 0, len(r.Results))
	for _, q := range r.Results {
		out = append(out, []string{
			q.QuestionID,
			q.Question,
			q.Response,
			string(q.Extracted),
			string(q.Correct),
			strconv.FormatBool(q.IsCorrect),
			seconds(q.Latency),
			q.Error,
		})
	}
	return writeAll(w,
		[]string{"question_id", "question", "model_response", "extracted_answer", "correct_answer",
			"is_correct", "response_time", "error"},
		out)
}
