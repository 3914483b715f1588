package api

import (
	"errors"
	"net/http"

	"github.com/llm-exam-tester/backend/internal/llm"
)

type ModelsResponse struct {
	Models []string `json:"models"`
}

// listModels lists the models installed on the inference service.
// @Summary      List models
// @Description  Returns an empty list when the service is reachable but has no models.
// @Tags         Models
// @Produce      json
// @Success      200  {object}  ModelsResponse
// @Failure      503  {object}  map[string]string  "inference service unreachable"
// @Failure      502  {object}  map[string]string
// @Router       /models [get]
func (h *Handler) listModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.llm.ListModels(r.Context())
	if err != nil {
		var unavailable *llm.ServiceUnavailableError
		if errors.As(err, &unavailable) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.logger.Error("list models failed", "error", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	if models == nil {
		models = []string{}
	}
	respondJSON(w, http.StatusOK, ModelsResponse{Models: models})
}
