package domain

import (
	"time"
)

// SourceVersion описывает одну загруженную версию исходного кода проекта.
type SourceVersion struct {
	AssociationID    string     `json:"association_id"`
	ProjectID        string     `json:"project_id"`
	Version          string     `json:"version"`
	SourcemapVersion *string    `json:"sourcemap_version,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

// VersionValidation — результат сверки версии из события ошибки со списком
// загруженных версий.
type VersionValidation struct {
	IsValid           bool     `json:"is_valid"`
	AvailableVersions []string `json:"available_versions"`
	SuggestedVersion  string   `json:"suggested_version,omitempty"`
}

// UploadResult возвращается бэкендом после успешной загрузки пары архивов.
type UploadResult struct {
	AssociationID       string `json:"association_id"`
	SourceCodeVersionID string `json:"source_code_version_id"`
	SourcemapVersionID  string `json:"sourcemap_version_id"`
}

// OperationStatus — общий ответ бэкенда на мутирующие операции.
type OperationStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
