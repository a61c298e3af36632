package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"sourcegate/internal/backend"
	"sourcegate/internal/domain"
	"sourcegate/internal/logger"
)

const (
	// Количество строк контекста по умолчанию вокруг целевой строки
	defaultContextLines = 10

	// Максимальное количество параллельных запросов трансляции
	maxConcurrentResolves = 5
)

// LocationService транслирует позиции ошибок через sourcemap-сервис бэкенда
// и достает окна исходного кода вокруг найденных строк.
type LocationService struct {
	store backend.Store
	log   *logger.Logger
}

func NewLocationService(store backend.Store, log *logger.Logger) *LocationService {
	return &LocationService{
		store: store,
		log:   log,
	}
}

// ResolveErrorLocation возвращает оригинальную позицию для позиции из события
// ошибки. Любой сбой трансляции гасится до nil: отсутствие ответа — штатный
// терминальный результат для вызывающих.
func (s *LocationService) ResolveErrorLocation(
	ctx context.Context,
	projectID, version, fileName string,
	line int,
	column *int,
) *domain.ResolvedLocation {
	location, err := s.store.ResolveLocation(ctx, projectID, version, fileName, line, column)
	if err != nil {
		s.log.Warn("failed to resolve error location",
			"project_id", projectID,
			"version", version,
			"file_name", fileName,
			"line", line,
			"error", err,
		)
		return nil
	}
	return location
}

// GetSourceCodeWithContext запрашивает окно из contextLines строк до и после
// целевой строки. Окно за пределами файла бэкенд прижимает к границам, это
// не ошибка.
func (s *LocationService) GetSourceCodeWithContext(
	ctx context.Context,
	projectID, version, filePath string,
	line, contextLines int,
) *domain.SourceCodeContext {
	if contextLines <= 0 {
		contextLines = defaultContextLines
	}

	window, err := s.store.GetFileContent(ctx, projectID, version, filePath, line, contextLines)
	if err != nil {
		s.log.Warn("failed to get source code window",
			"project_id", projectID,
			"version", version,
			"file_path", filePath,
			"line", line,
			"error", err,
		)
		return nil
	}
	return window
}

// BatchResolveErrorLocations разрешает несколько кадров стека параллельно.
// Длина и порядок результата совпадают со входом; сбой одного кадра дает nil
// на его позиции и не прерывает остальные.
func (s *LocationService) BatchResolveErrorLocations(
	ctx context.Context,
	projectID, version string,
	frames []domain.ErrorPosition,
) []*domain.ResolvedLocation {
	results := make([]*domain.ResolvedLocation, len(frames))

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentResolves)

	for i, frame := range frames {
		i, frame := i, frame
		g.Go(func() error {
			results[i] = s.ResolveErrorLocation(ctx, projectID, version, frame.FileName, frame.Line, frame.Column)
			return nil
		})
	}

	// Горутины ошибок не возвращают, Wait нужен только как барьер
	_ = g.Wait()
	return results
}
