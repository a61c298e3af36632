// store.go
package backend

import (
	"context"

	"sourcegate/internal/domain"
)

// Store определяет интерфейс бэкенда мониторинга: хранилище ассоциаций
// архивов и сервис трансляции sourcemap. Инвариант единственной активной
// версии на проект обеспечивается на стороне бэкенда, клиент только
// передает операции.
type Store interface {
	// Операции над ассоциациями
	ListSourceVersions(ctx context.Context, projectID string) ([]domain.SourceVersion, error)
	UploadSourceArchives(ctx context.Context, projectID, version string, sourceArchive, sourcemapArchive []byte, setActive bool) (*domain.UploadResult, error)
	SetActiveAssociation(ctx context.Context, projectID, associationID string) (*domain.OperationStatus, error)
	DeleteAssociation(ctx context.Context, projectID, associationID string) (*domain.OperationStatus, error)

	// Чтение исходников и трансляция позиций
	ListFiles(ctx context.Context, projectID, version string) ([]domain.FileEntry, error)
	ResolveLocation(ctx context.Context, projectID, version, fileName string, line int, column *int) (*domain.ResolvedLocation, error)
	GetFileContent(ctx context.Context, projectID, version, filePath string, line, contextLines int) (*domain.SourceCodeContext, error)
	PrepareContext(ctx context.Context, projectID, version string, errorInfo domain.ErrorPosition, contextSize int) (*domain.DiagnosisContext, error)

	// Проверка доступности бэкенда
	Ping(ctx context.Context) error
}
