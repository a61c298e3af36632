package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sourcegate/internal/domain"
	"sourcegate/internal/service"
)

const maxUploadMemory = 32 * 1024 * 1024 // 32MB в памяти, остальное на диск

type AssociationHandler struct {
	associationService *service.AssociationService
}

func NewAssociationHandler(associationService *service.AssociationService) *AssociationHandler {
	return &AssociationHandler{associationService: associationService}
}

type uploadResponse struct {
	Result *domain.UploadResult  `json:"result"`
	Check  *service.ArchiveCheck `json:"check"`
}

// Upload принимает multipart-форму с парой архивов (source, sourcemap),
// меткой версии и флагом set_active
func (h *AssociationHandler) Upload(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	sourceArchive, err := readFormFile(r, "source")
	if err != nil {
		writeError(w, domain.NewValidationError("source archive is required"))
		return
	}
	sourcemapArchive, err := readFormFile(r, "sourcemap")
	if err != nil {
		writeError(w, domain.NewValidationError("sourcemap archive is required"))
		return
	}

	version := r.FormValue("version")
	setActive := r.FormValue("set_active") == "true"

	result, check, err := h.associationService.Upload(
		r.Context(),
		projectID,
		version,
		sourceArchive,
		sourcemapArchive,
		setActive,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, uploadResponse{Result: result, Check: check})
}

// SetActive назначает ассоциацию активной версией проекта
func (h *AssociationHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	associationID := chi.URLParam(r, "associationId")

	if err := h.associationService.SetActive(r.Context(), projectID, associationID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, domain.OperationStatus{Success: true})
}

// Delete удаляет ассоциацию
func (h *AssociationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	associationID := chi.URLParam(r, "associationId")

	if err := h.associationService.Delete(r.Context(), projectID, associationID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, domain.OperationStatus{Success: true})
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
