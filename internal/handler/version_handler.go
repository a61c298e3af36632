package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sourcegate/internal/service"
)

type VersionHandler struct {
	versionService     *service.VersionService
	associationService *service.AssociationService
}

func NewVersionHandler(
	versionService *service.VersionService,
	associationService *service.AssociationService,
) *VersionHandler {
	return &VersionHandler{
		versionService:     versionService,
		associationService: associationService,
	}
}

// ListVersions обрабатывает запрос списка загруженных версий проекта
func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	versions := h.associationService.ListVersions(r.Context(), projectID)
	writeJSON(w, versions)
}

// ValidateVersion сверяет версию из события ошибки со списком загруженных
func (h *VersionHandler) ValidateVersion(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	var req struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	validation := h.versionService.ValidateVersion(r.Context(), projectID, req.Version)
	writeJSON(w, validation)
}
