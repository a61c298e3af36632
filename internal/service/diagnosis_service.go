package service

import (
	"context"
	"fmt"
	"strings"

	"sourcegate/internal/backend"
	"sourcegate/internal/domain"
	"sourcegate/internal/logger"
)

// DiagnosisService собирает пакет контекста для внешнего движка диагностики:
// разрешенную позицию ошибки, фрагмент исходника и связанные файлы.
type DiagnosisService struct {
	store     backend.Store
	locations *LocationService
	log       *logger.Logger
}

func NewDiagnosisService(store backend.Store, locations *LocationService, log *logger.Logger) *DiagnosisService {
	return &DiagnosisService{
		store:     store,
		locations: locations,
		log:       log,
	}
}

// PrepareAIContext собирает DiagnosisContext. Оценки релевантности связанных
// файлов проходят насквозь без изменений, порядок массива сохраняется —
// ранжирование принадлежит бэкенду. При неизменном бэкенде повторный вызов
// дает структурно идентичный результат.
func (s *DiagnosisService) PrepareAIContext(
	ctx context.Context,
	projectID, version string,
	errorInfo domain.ErrorPosition,
	contextSize int,
) *domain.DiagnosisContext {
	if contextSize <= 0 {
		contextSize = defaultContextLines
	}

	result := &domain.DiagnosisContext{
		ErrorLocation: domain.ErrorLocation{
			File:   errorInfo.FileName,
			Line:   errorInfo.Line,
			Column: errorInfo.Column,
		},
		RelatedFiles: []domain.RelatedFile{},
	}

	resolved := s.locations.ResolveErrorLocation(ctx, projectID, version, errorInfo.FileName, errorInfo.Line, errorInfo.Column)
	if resolved != nil {
		result.ErrorLocation = domain.ErrorLocation{
			File:   resolved.OriginalFile,
			Line:   resolved.OriginalLine,
			Column: resolved.OriginalColumn,
		}
		result.SourceCode = resolved.SourceContent
	}

	raw, err := s.store.PrepareContext(ctx, projectID, version, errorInfo, contextSize)
	if err != nil {
		s.log.Warn("failed to prepare diagnosis context",
			"project_id", projectID,
			"version", version,
			"file_name", errorInfo.FileName,
			"error", err,
		)
	} else if raw != nil {
		if len(raw.RelatedFiles) > 0 {
			result.RelatedFiles = raw.RelatedFiles
		}
		if result.SourceCode == "" {
			result.SourceCode = raw.SourceCode
		}
	}

	result.Context = buildContextSummary(result)
	return result
}

// buildContextSummary форматирует человекочитаемую сводку: позиция, фрагмент
// исходника и список связанных файлов с их оценками.
func buildContextSummary(d *domain.DiagnosisContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Error location: %s:%d", d.ErrorLocation.File, d.ErrorLocation.Line)
	if d.ErrorLocation.Column != nil {
		fmt.Fprintf(&b, ":%d", *d.ErrorLocation.Column)
	}
	b.WriteString("\n")

	if d.SourceCode != "" {
		b.WriteString("\nSource:\n")
		b.WriteString(d.SourceCode)
		if !strings.HasSuffix(d.SourceCode, "\n") {
			b.WriteString("\n")
		}
	}

	if len(d.RelatedFiles) > 0 {
		b.WriteString("\nRelated files:\n")
		for _, f := range d.RelatedFiles {
			fmt.Fprintf(&b, "- %s (relevance %.2f)\n", f.File, f.Relevance)
		}
	}

	return b.String()
}
