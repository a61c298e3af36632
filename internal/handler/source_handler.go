package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sourcegate/internal/domain"
	"sourcegate/internal/service"
)

type SourceHandler struct {
	fileTreeService *service.FileTreeService
	locationService *service.LocationService
}

func NewSourceHandler(
	fileTreeService *service.FileTreeService,
	locationService *service.LocationService,
) *SourceHandler {
	return &SourceHandler{
		fileTreeService: fileTreeService,
		locationService: locationService,
	}
}

// GetFileTree отдает дерево файлов версии. Необязательные параметры
// error_file и error_line помечают файл ошибки и считают ключи раскрытия.
func (h *SourceHandler) GetFileTree(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	version := r.URL.Query().Get("version")
	errorFile := r.URL.Query().Get("error_file")
	errorLine, _ := strconv.Atoi(r.URL.Query().Get("error_line"))

	if version == "" {
		writeError(w, domain.NewValidationError("version is required"))
		return
	}

	tree := h.fileTreeService.ProjectFileTree(r.Context(), projectID, version, errorFile, errorLine)
	writeJSON(w, tree)
}

// ResolveLocation транслирует одну позицию ошибки; тело ответа null, если
// трансляция не удалась
func (h *SourceHandler) ResolveLocation(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	var req struct {
		Version  string `json:"version"`
		FileName string `json:"file_name"`
		Line     int    `json:"line"`
		Column   *int   `json:"column,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	location := h.locationService.ResolveErrorLocation(
		r.Context(),
		projectID,
		req.Version,
		req.FileName,
		req.Line,
		req.Column,
	)
	writeJSON(w, location)
}

// ResolveBatch транслирует несколько кадров стека; порядок и длина
// результата совпадают со входом, сбойные кадры приходят как null
func (h *SourceHandler) ResolveBatch(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	var req struct {
		Version string                 `json:"version"`
		Frames  []domain.ErrorPosition `json:"frames"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	results := h.locationService.BatchResolveErrorLocations(r.Context(), projectID, req.Version, req.Frames)
	writeJSON(w, results)
}

// GetSourceWindow отдает окно исходника вокруг строки
func (h *SourceHandler) GetSourceWindow(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	query := r.URL.Query()

	version := query.Get("version")
	filePath := query.Get("file_path")
	if version == "" || filePath == "" {
		writeError(w, domain.NewValidationError("version and file_path are required"))
		return
	}

	line, _ := strconv.Atoi(query.Get("line"))
	contextLines, _ := strconv.Atoi(query.Get("context"))

	window := h.locationService.GetSourceCodeWithContext(r.Context(), projectID, version, filePath, line, contextLines)
	writeJSON(w, window)
}
