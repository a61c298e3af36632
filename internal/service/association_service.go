package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"sourcegate/internal/backend"
	"sourcegate/internal/domain"
	"sourcegate/internal/logger"
)

const maxArchiveSize = 100 * 1024 * 1024 // 100MB максимальный размер архива

// AssociationService управляет жизненным циклом ассоциаций: загрузка пары
// архивов, назначение активной версии, удаление. Инвариант "не больше одной
// активной версии на проект" атомарно обеспечивает бэкенд; отклоненная им
// конкурирующая мутация приходит сюда как обычная ошибка операции.
type AssociationService struct {
	store backend.Store
	log   *logger.Logger
}

func NewAssociationService(store backend.Store, log *logger.Logger) *AssociationService {
	return &AssociationService{
		store: store,
		log:   log,
	}
}

// ArchiveCheck — результат предварительной проверки архивов перед загрузкой.
type ArchiveCheck struct {
	SourceFiles    int      `json:"source_files"`
	SourcemapFiles int      `json:"sourcemap_files"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Upload загружает пару архивов под меткой версии. Перед отправкой архивы
// проверяются локально, зеркально серверной валидации: пустой архив
// исходников — ошибка, пустой архив sourcemap — только предупреждение.
func (s *AssociationService) Upload(
	ctx context.Context,
	projectID, version string,
	sourceArchive, sourcemapArchive []byte,
	setActive bool,
) (*domain.UploadResult, *ArchiveCheck, error) {
	if projectID == "" {
		return nil, nil, domain.NewValidationError("project id is required")
	}
	if strings.TrimSpace(version) == "" {
		return nil, nil, domain.NewValidationError("version label is required")
	}
	if len(sourceArchive) > maxArchiveSize || len(sourcemapArchive) > maxArchiveSize {
		return nil, nil, domain.NewValidationError(fmt.Sprintf("archive size exceeds maximum of %d bytes", maxArchiveSize))
	}

	check, err := inspectArchives(sourceArchive, sourcemapArchive)
	if err != nil {
		return nil, nil, err
	}
	for _, warning := range check.Warnings {
		s.log.Warn("archive pre-validation warning",
			"project_id", projectID,
			"version", version,
			"warning", warning,
		)
	}

	result, err := s.store.UploadSourceArchives(ctx, projectID, version, sourceArchive, sourcemapArchive, setActive)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("source archives uploaded",
		"project_id", projectID,
		"version", version,
		"association_id", result.AssociationID,
		"set_active", setActive,
	)
	return result, check, nil
}

// SetActive делает ассоциацию активной; прежняя активная версия проекта
// разжалуется на стороне бэкенда в рамках той же операции.
func (s *AssociationService) SetActive(ctx context.Context, projectID, associationID string) error {
	if associationID == "" {
		return domain.NewValidationError("association id is required")
	}

	status, err := s.store.SetActiveAssociation(ctx, projectID, associationID)
	if err != nil {
		return err
	}
	if !status.Success {
		message := status.Message
		if message == "" {
			message = "association not found"
		}
		return domain.NewValidationError(message)
	}
	return nil
}

// Delete удаляет ассоциацию. Удаление активной версии оставляет проект без
// активной до следующего SetActive: автоматического продвижения замены нет.
func (s *AssociationService) Delete(ctx context.Context, projectID, associationID string) error {
	if associationID == "" {
		return domain.NewValidationError("association id is required")
	}

	status, err := s.store.DeleteAssociation(ctx, projectID, associationID)
	if err != nil {
		return err
	}
	if !status.Success {
		message := status.Message
		if message == "" {
			message = "association not found"
		}
		return domain.NewValidationError(message)
	}
	return nil
}

// ListVersions возвращает все версии проекта. Сбой обращения гасится до
// пустого списка, чтобы таблица версий в интерфейсе не падала.
func (s *AssociationService) ListVersions(ctx context.Context, projectID string) []domain.SourceVersion {
	versions, err := s.store.ListSourceVersions(ctx, projectID)
	if err != nil {
		s.log.Warn("failed to list source versions",
			"project_id", projectID,
			"error", err,
		)
		return []domain.SourceVersion{}
	}
	if versions == nil {
		versions = []domain.SourceVersion{}
	}
	return versions
}

// inspectArchives считает файлы в обоих zip-архивах и формирует результат
// предварительной проверки.
func inspectArchives(sourceArchive, sourcemapArchive []byte) (*ArchiveCheck, error) {
	sourceCount, err := zipEntryCount(sourceArchive)
	if err != nil {
		return nil, domain.NewValidationError("source archive is not a valid zip archive")
	}
	sourcemapCount, err := zipEntryCount(sourcemapArchive)
	if err != nil {
		return nil, domain.NewValidationError("sourcemap archive is not a valid zip archive")
	}

	if sourceCount == 0 {
		return nil, domain.NewValidationError("source archive contains no files")
	}

	check := &ArchiveCheck{
		SourceFiles:    sourceCount,
		SourcemapFiles: sourcemapCount,
	}
	if sourcemapCount == 0 {
		check.Warnings = append(check.Warnings,
			"sourcemap archive contains no files; error locations will not be translated")
	}
	return check, nil
}

func zipEntryCount(data []byte) (int, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, f := range reader.File {
		if !f.FileInfo().IsDir() {
			count++
		}
	}
	return count, nil
}
