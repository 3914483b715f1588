package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/llm-exam-tester/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type JobResponse struct {
	ID         string  `json:"id"`
	Model      string  `json:"model" example:"llama3.2:3b"`
	Status     string  `json:"status" example:"running"`
	Completed  int     `json:"completed" example:"7"`
	Total      int     `json:"total" example:"20"`
	Fraction   float64 `json:"fraction" example:"0.35"`
	StatusText string  `json:"status_text" example:"Question 7/20 (Q7): correct"`
	Elapsed    float64 `json:"elapsed" example:"12.4"`
	RunID      string  `json:"run_id,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// ProgressEvent is one websocket message on /jobs/{jobID}/events.
type ProgressEvent struct {
	Type       string       `json:"type" example:"progress"` // "progress" or "done"
	QuestionID string       `json:"question_id,omitempty" example:"Q7"`
	Completed  int          `json:"completed" example:"7"`
	Total      int          `json:"total" example:"20"`
	Fraction   float64      `json:"fraction" example:"0.35"`
	StatusText string       `json:"status_text"`
	Elapsed    float64      `json:"elapsed" example:"12.4"`
	Job        *JobResponse `json:"job,omitempty"`
}

func toJobResponse(j service.Job) JobResponse {
	return JobResponse{
		ID:         j.ID,
		Model:      j.Model,
		Status:     string(j.Status),
		Completed:  j.Progress.Completed,
		Total:      j.Progress.Total,
		Fraction:   j.Progress.Fraction,
		StatusText: j.Progress.Status,
		Elapsed:    j.Progress.Elapsed.Seconds(),
		RunID:      j.RunID,
		Error:      j.Error,
	}
}

func toProgressEvent(p service.Progress) ProgressEvent {
	return ProgressEvent{
		Type:       "progress",
		QuestionID: p.QuestionID,
		Completed:  p.Completed,
		Total:      p.Total,
		Fraction:   p.Fraction,
		StatusText: p.Status,
		Elapsed:    p.Elapsed.Seconds(),
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getJob returns the status of a queued or running run.
// @Summary      Get job status
// @Tags         Jobs
// @Produce      json
// @Param        jobID  path      string  true  "Job ID"
// @Success      200    {object}  JobResponse
// @Failure      404    {object}  map[string]string
// @Router       /jobs/{jobID} [get]
func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(r.PathValue("jobID"))
	if errors.Is(err, service.ErrJobNotFound) {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, toJobResponse(job))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are restricted by the CORS middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

const writeWait = 10 * time.Second

// streamJob upgrades to a websocket and pushes progress events until the
// job finishes, then sends a final "done" event carrying the job status.
// @Summary      Stream job progress
// @Description  Websocket. Each message is a ProgressEvent; the last one has type "done".
// @Tags         Jobs
// @Param        jobID  path  string  true  "Job ID"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      404  {object}  map[string]string
// @Router       /jobs/{jobID}/events [get]
func (h *Handler) streamJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	events, unsubscribe, err := h.jobs.Subscribe(jobID)
	if errors.Is(err, service.ErrJobNotFound) {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	defer unsubscribe()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "job_id", jobID, "error", err)
		return
	}
	defer conn.Close()

	// The client never sends anything useful; reading detects its close.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				unsubscribe()
				return
			}
		}
	}()

	if job, err := h.jobs.Get(jobID); err == nil && !job.Done() {
		if err := writeEvent(conn, toProgressEvent(job.Progress)); err != nil {
			return
		}
	}

	for p := range events {
		if err := writeEvent(conn, toProgressEvent(p)); err != nil {
			h.logger.Debug("websocket write failed", "job_id", jobID, "error", err)
			return
		}
	}

	job, err := h.jobs.Get(jobID)
	if err != nil {
		return
	}
	final := toJobResponse(job)
	done := ProgressEvent{
		Type:       "done",
		Completed:  final.Completed,
		Total:      final.Total,
		Fraction:   final.Fraction,
		StatusText: final.StatusText,
		Elapsed:    final.Elapsed,
		Job:        &final,
	}
	if err := writeEvent(conn, done); err != nil {
		return
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func writeEvent(conn *websocket.Conn, ev ProgressEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
