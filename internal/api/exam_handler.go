package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
)

const maxUploadBytes = 8 << 20

// ── Request / Response types ────────────────────────────────────────────────

type ExamSummaryResponse struct {
	Questions   int      `json:"questions" example:"20"`
	QuestionIDs []string `json:"question_ids"`
}

// ── Helpers ─────────────────────────────────────────────────────────────────

// errNoExamFiles means the request carried neither questions nor answers.
var errNoExamFiles = errors.New("no exam files")

// examFromForm loads the exam uploaded as multipart files "questions" and
// "answers". Both must be present; errNoExamFiles is returned when neither is.
func examFromForm(r *http.Request) (*exam.Exam, error) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
	}

	qFile, qErr := formFile(r, "questions")
	aFile, aErr := formFile(r, "answers")
	if qFile != nil {
		defer qFile.Close()
	}
	if aFile != nil {
		defer aFile.Close()
	}

	switch {
	case errors.Is(qErr, http.ErrMissingFile) && errors.Is(aErr, http.ErrMissingFile):
		return nil, errNoExamFiles
	case qErr != nil:
		return nil, fmt.Errorf("questions file: %w", qErr)
	case aErr != nil:
		return nil, fmt.Errorf("answers file: %w", aErr)
	}

	return exam.Load(qFile, aFile)
}

func formFile(r *http.Request, field string) (multipart.File, error) {
	f, _, err := r.FormFile(field)
	return f, err
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func summarize(e *exam.Exam) ExamSummaryResponse {
	qs := e.Questions()
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ExamSummaryResponse{Questions: len(qs), QuestionIDs: ids}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// validateExam checks an uploaded exam without running it.
// @Summary      Validate an exam
// @Description  Parse the questions and answers CSV files and report schema or integrity problems.
// @Tags         Exams
// @Accept       mpfd
// @Produce      json
// @Param        questions  formData  file  true  "Questions CSV (id, question, option_a..option_d)"
// @Param        answers    formData  file  true  "Answers CSV (id, correct_answer)"
// @Success      200        {object}  ExamSummaryResponse
// @Failure      400        {object}  map[string]string
// @Router       /exams/validate [post]
func (h *Handler) validateExam(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		respondError(w, http.StatusBadRequest, "expected multipart/form-data with questions and answers files")
		return
	}

	e, err := examFromForm(r)
	if errors.Is(err, errNoExamFiles) {
		respondError(w, http.StatusBadRequest, "questions and answers files are required")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, summarize(e))
}
