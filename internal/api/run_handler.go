package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/llm-exam-tester/backend/internal/analytics"
	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
	"github.com/llm-exam-tester/backend/internal/export"
	"github.com/llm-exam-tester/backend/internal/id"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartRunRequest struct {
	Model string `json:"model" example:"llama3.2:3b"`
}

type StartRunResponse struct {
	JobID  string `json:"job_id" example:"4f1c2a7e-8d3b-4c5e-9f6a-1b2c3d4e5f60"`
	Model  string `json:"model" example:"llama3.2:3b"`
	Status string `json:"status" example:"queued"`
	Total  int    `json:"total" example:"20"`
}

type QuestionResultResponse struct {
	QuestionID      string  `json:"question_id" example:"Q1"`
	Question        string  `json:"question"`
	ModelResponse   string  `json:"model_response"`
	ExtractedAnswer string  `json:"extracted_answer" example:"A"`
	CorrectAnswer   string  `json:"correct_answer" example:"A"`
	IsCorrect       bool    `json:"is_correct"`
	ResponseTime    float64 `json:"response_time" example:"1.25"`
	Error           string  `json:"error,omitempty"`
}

type RunResponse struct {
	ID              string                   `json:"id"`
	Model           string                   `json:"model" example:"llama3.2:3b"`
	Score           float64                  `json:"score" example:"85"`
	Correct         int                      `json:"correct" example:"17"`
	Total           int                      `json:"total" example:"20"`
	AvgResponseTime float64                  `json:"avg_response_time" example:"1.8"`
	TotalTime       float64                  `json:"total_time" example:"36.2"`
	Timestamp       time.Time                `json:"timestamp"`
	Results         []QuestionResultResponse `json:"results"`
}

type HistoryResponse struct {
	RunID           string    `json:"test_id"`
	Model           string    `json:"model" example:"llama3.2:3b"`
	Timestamp       time.Time `json:"timestamp"`
	Score           float64   `json:"score_percentage" example:"85"`
	Correct         int       `json:"correct" example:"17"`
	Total           int       `json:"total" example:"20"`
	AvgResponseTime float64   `json:"avg_response_time" example:"1.8"`
	TotalTime       float64   `json:"total_time" example:"36.2"`
}

func toRunResponse(r *run.Report) RunResponse {
	results := make([]QuestionResultResponse, len(r.Results))
	for i, q := range r.Results {
		results[i] = QuestionResultResponse{
			QuestionID:      q.QuestionID,
			Question:        q.Question,
			ModelResponse:   q.Response,
			ExtractedAnswer: string(q.Extracted),
			CorrectAnswer:   string(q.Correct),
			IsCorrect:       q.IsCorrect,
			ResponseTime:    q.Latency.Seconds(),
			Error:           q.Error,
		}
	}
	return RunResponse{
		ID:              r.ID,
		Model:           r.Model,
		Score:           r.Score,
		Correct:         r.CorrectCount(),
		Total:           len(r.Results),
		AvgResponseTime: r.AvgLatency().Seconds(),
		TotalTime:       r.Duration.Seconds(),
		Timestamp:       r.Timestamp,
		Results:         results,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// startRun queues an exam run against one model.
// @Summary      Start a run
// @Description  Queue a run of the uploaded exam (or the bundled default exam when no files are sent) against a model. Accepts multipart form data or a JSON body with only the model.
// @Tags         Runs
// @Accept       mpfd,json
// @Produce      json
// @Param        model      formData  string  true   "Model identifier"
// @Param        questions  formData  file    false  "Questions CSV"
// @Param        answers    formData  file    false  "Answers CSV"
// @Success      202        {object}  StartRunResponse
// @Failure      400        {object}  map[string]string
// @Failure      503        {object}  map[string]string
// @Router       /runs [post]
func (h *Handler) startRun(w http.ResponseWriter, r *http.Request) {
	var (
		model string
		e     *exam.Exam
	)

	if isMultipart(r) {
		loaded, err := examFromForm(r)
		switch {
		case errors.Is(err, errNoExamFiles):
			e = exam.Default()
		case err != nil:
			respondError(w, http.StatusBadRequest, err.Error())
			return
		default:
			e = loaded
		}
		model = r.FormValue("model")
	} else {
		var req StartRunRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		model = req.Model
		e = exam.Default()
	}

	if model == "" {
		respondError(w, http.StatusBadRequest, "model is required")
		return
	}

	job, err := h.jobs.Submit(model, e)
	if err != nil {
		h.logger.Error("failed to queue run", "model", model, "error", err)
		respondError(w, http.StatusServiceUnavailable, "run queue is closed")
		return
	}

	respondJSON(w, http.StatusAccepted, StartRunResponse{
		JobID:  job.ID,
		Model:  job.Model,
		Status: string(job.Status),
		Total:  job.Progress.Total,
	})
}

// listRuns returns the run history, newest first.
// @Summary      Run history
// @Tags         Runs
// @Produce      json,text/csv
// @Param        format  query     string  false  "csv for a CSV download"
// @Success      200     {array}   HistoryResponse
// @Failure      500     {object}  map[string]string
// @Router       /runs [get]
func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.AllRuns(r.Context())
	if h.handleStoreError(w, err, "runs") {
		return
	}
	rows := analytics.History(runs)

	if wantsCSV(r) {
		h.writeCSV(w, "history.csv", func(w http.ResponseWriter) error {
			return export.History(w, rows)
		})
		return
	}

	response := make([]HistoryResponse, len(rows))
	for i, row := range rows {
		response[i] = HistoryResponse{
			RunID:           row.RunID,
			Model:           row.Model,
			Timestamp:       row.Timestamp,
			Score:           row.Score,
			Correct:         row.Correct,
			Total:           row.Total,
			AvgResponseTime: row.AvgLatency.Seconds(),
			TotalTime:       row.Duration.Seconds(),
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// getRun returns one run with its per-question results.
// @Summary      Get a run
// @Tags         Runs
// @Produce      json
// @Param        runID  path      string  true  "Run ID"
// @Success      200    {object}  RunResponse
// @Failure      404    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /runs/{runID} [get]
func (h *Handler) getRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")
	if !id.Valid(runID) {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}
	report, err := h.store.GetRun(r.Context(), runID)
	if h.handleStoreError(w, err, "run") {
		return
	}
	respondJSON(w, http.StatusOK, toRunResponse(report))
}

// exportRun downloads the per-question results of one run as CSV.
// @Summary      Export a run
// @Tags         Runs
// @Produce      text/csv
// @Param        runID  path  string  true  "Run ID"
// @Success      200    {string}  string  "CSV file"
// @Failure      404    {object}  map[string]string
// @Router       /runs/{runID}/export [get]
func (h *Handler) exportRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")
	if !id.Valid(runID) {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}
	report, err := h.store.GetRun(r.Context(), runID)
	if h.handleStoreError(w, err, "run") {
		return
	}
	h.writeCSV(w, "run-"+report.ID+".csv", func(w http.ResponseWriter) error {
		return export.RunDetail(w, report)
	})
}
