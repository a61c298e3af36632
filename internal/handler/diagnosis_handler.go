package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sourcegate/internal/domain"
	"sourcegate/internal/service"
)

type DiagnosisHandler struct {
	diagnosisService *service.DiagnosisService
}

func NewDiagnosisHandler(diagnosisService *service.DiagnosisService) *DiagnosisHandler {
	return &DiagnosisHandler{diagnosisService: diagnosisService}
}

// PrepareContext собирает пакет контекста для движка диагностики
func (h *DiagnosisHandler) PrepareContext(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	var req struct {
		Version     string               `json:"version"`
		Error       domain.ErrorPosition `json:"error"`
		ContextSize int                  `json:"context_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Error.FileName == "" {
		writeError(w, domain.NewValidationError("error.file_name is required"))
		return
	}

	diagCtx := h.diagnosisService.PrepareAIContext(r.Context(), projectID, req.Version, req.Error, req.ContextSize)
	writeJSON(w, diagCtx)
}
