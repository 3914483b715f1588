package api

import (
	"net/http"
	"time"

	"github.com/llm-exam-tester/backend/internal/analytics"
	"github.com/llm-exam-tester/backend/internal/export"
)

// ── Request / Response types ────────────────────────────────────────────────

type LeaderboardResponse struct {
	Rank            int     `json:"rank" example:"1"`
	Model           string  `json:"model" example:"llama3.2:3b"`
	AvgScore        float64 `json:"avg_score" example:"82.5"`
	AvgResponseTime float64 `json:"avg_response_time" example:"1.9"`
	CombinedScore   float64 `json:"combined_score" example:"82.05"`
	TestCount       int     `json:"test_count" example:"3"`
}

type QuestionStatResponse struct {
	QuestionID      string  `json:"question_id" example:"Q4"`
	Question        string  `json:"question"`
	SuccessRate     float64 `json:"success_rate" example:"33.3"`
	Difficulty      string  `json:"difficulty" example:"Hard"`
	Attempts        int     `json:"attempts" example:"6"`
	Unparseable     int     `json:"unparseable" example:"1"`
	AvgResponseTime float64 `json:"avg_response_time" example:"2.1"`
	ModelsTested    int     `json:"models_tested" example:"3"`
	CommonMistake   string  `json:"common_mistake,omitempty" example:"C"`
}

type MatrixRowResponse struct {
	Model     string    `json:"model"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Cells     []string  `json:"cells"`
	Total     int       `json:"total"`
}

type MatrixResponse struct {
	Mode    string              `json:"mode" example:"latest"`
	Columns []string            `json:"columns"`
	Rows    []MatrixRowResponse `json:"rows"`
}

type StatsResponse struct {
	TotalRuns    int     `json:"total_tests" example:"12"`
	Models       int     `json:"unique_models" example:"4"`
	AvgScore     float64 `json:"avg_score" example:"71.3"`
	BestModel    string  `json:"best_model,omitempty" example:"qwen2.5:7b"`
	BestModelAvg float64 `json:"best_model_avg,omitempty" example:"88.8"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getLeaderboard ranks models by combined accuracy and speed.
// @Summary      Leaderboard
// @Tags         Views
// @Produce      json,text/csv
// @Param        format  query     string  false  "csv for a CSV download"
// @Success      200     {array}   LeaderboardResponse
// @Failure      500     {object}  map[string]string
// @Router       /leaderboard [get]
func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.AllRuns(r.Context())
	if h.handleStoreError(w, err, "runs") {
		return
	}
	rows := analytics.Leaderboard(runs, h.scoring)

	if wantsCSV(r) {
		h.writeCSV(w, "leaderboard.csv", func(w http.ResponseWriter) error {
			return export.Leaderboard(w, rows)
		})
		return
	}

	response := make([]LeaderboardResponse, len(rows))
	for i, row := range rows {
		response[i] = LeaderboardResponse{
			Rank:            row.Rank,
			Model:           row.Model,
			AvgScore:        row.AvgScore,
			AvgResponseTime: row.AvgLatency.Seconds(),
			CombinedScore:   row.CombinedScore,
			TestCount:       row.RunCount,
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// getQuestionAnalytics reports per-question difficulty across all runs.
// @Summary      Question analytics
// @Tags         Views
// @Produce      json,text/csv
// @Param        format  query     string  false  "csv for a CSV download"
// @Success      200     {array}   QuestionStatResponse
// @Failure      500     {object}  map[string]string
// @Router       /analytics [get]
func (h *Handler) getQuestionAnalytics(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.AllRuns(r.Context())
	if h.handleStoreError(w, err, "runs") {
		return
	}
	stats := analytics.QuestionAnalytics(runs, h.scoring)

	if wantsCSV(r) {
		h.writeCSV(w, "question-analytics.csv", func(w http.ResponseWriter) error {
			return export.QuestionAnalytics(w, stats)
		})
		return
	}

	response := make([]QuestionStatResponse, len(stats))
	for i, s := range stats {
		response[i] = QuestionStatResponse{
			QuestionID:      s.QuestionID,
			Question:        s.Question,
			SuccessRate:     s.SuccessRate,
			Difficulty:      string(s.Difficulty),
			Attempts:        s.Attempts,
			Unparseable:     s.Unparseable,
			AvgResponseTime: s.AvgLatency.Seconds(),
			ModelsTested:    s.ModelsTested,
			CommonMistake:   string(s.CommonMistake),
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// getMatrix returns the model × question correctness matrix.
// @Summary      Correctness matrix
// @Tags         Views
// @Produce      json,text/csv
// @Param        mode    query     string  false  "latest (default) or all"
// @Param        format  query     string  false  "csv for a CSV download"
// @Success      200     {object}  MatrixResponse
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /matrix [get]
func (h *Handler) getMatrix(w http.ResponseWriter, r *http.Request) {
	mode, err := analytics.ParseMatrixMode(r.URL.Query().Get("mode"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	runs, err := h.store.AllRuns(r.Context())
	if h.handleStoreError(w, err, "runs") {
		return
	}
	m, err := analytics.BuildMatrix(runs, mode)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if wantsCSV(r) {
		h.writeCSV(w, "matrix-"+string(mode)+".csv", func(w http.ResponseWriter) error {
			return export.Matrix(w, m, h.meta)
		})
		return
	}

	rows := make([]MatrixRowResponse, len(m.Rows))
	for i, row := range m.Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}
		rows[i] = MatrixRowResponse{
			Model:     row.Model,
			RunID:     row.RunID,
			Timestamp: row.Timestamp,
			Cells:     cells,
			Total:     row.Total,
		}
	}
	columns := m.Columns
	if columns == nil {
		columns = []string{}
	}
	respondJSON(w, http.StatusOK, MatrixResponse{
		Mode:    string(m.Mode),
		Columns: columns,
		Rows:    rows,
	})
}

// getStats returns headline numbers over all runs.
// @Summary      Summary statistics
// @Tags         Views
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      500  {object}  map[string]string
// @Router       /stats [get]
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.AllRuns(r.Context())
	if h.handleStoreError(w, err, "runs") {
		return
	}
	s := analytics.Summarize(runs)
	respondJSON(w, http.StatusOK, StatsResponse{
		TotalRuns:    s.TotalRuns,
		Models:       s.Models,
		AvgScore:     s.AvgScore,
		BestModel:    s.BestModel,
		BestModelAvg: s.BestModelAvg,
	})
}
