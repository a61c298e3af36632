package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sourcegate/internal/domain"
)

// fakeStore — in-memory реализация backend.Store для тестов. Мутирующие
// операции соблюдают инвариант единственной активной версии, как это делает
// настоящий бэкенд.
type fakeStore struct {
	mu sync.Mutex

	versions map[string][]domain.SourceVersion // projectID → ассоциации
	files    map[string][]domain.FileEntry     // projectID+"|"+version → файлы
	content  map[string]string                 // filePath → содержимое
	diag     *domain.DiagnosisContext

	// resolveFn позволяет тесту управлять трансляцией позиций
	resolveFn func(fileName string, line int, column *int) (*domain.ResolvedLocation, error)

	listErr    error
	contentErr error
	nextID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		versions: make(map[string][]domain.SourceVersion),
		files:    make(map[string][]domain.FileEntry),
		content:  make(map[string]string),
	}
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) ListSourceVersions(ctx context.Context, projectID string) ([]domain.SourceVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.SourceVersion, len(f.versions[projectID]))
	copy(out, f.versions[projectID])
	return out, nil
}

func (f *fakeStore) UploadSourceArchives(
	ctx context.Context,
	projectID, version string,
	sourceArchive, sourcemapArchive []byte,
	setActive bool,
) (*domain.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := fmt.Sprintf("assoc-%d", f.nextID)

	if setActive {
		f.demoteActiveLocked(projectID)
	}
	now := time.Now()
	f.versions[projectID] = append(f.versions[projectID], domain.SourceVersion{
		AssociationID: id,
		ProjectID:     projectID,
		Version:       version,
		IsActive:      setActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	})

	return &domain.UploadResult{
		AssociationID:       id,
		SourceCodeVersionID: id + "-src",
		SourcemapVersionID:  id + "-map",
	}, nil
}

func (f *fakeStore) SetActiveAssociation(ctx context.Context, projectID, associationID string) (*domain.OperationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := f.versions[projectID]
	found := false
	for i := range list {
		if list[i].AssociationID == associationID {
			found = true
			break
		}
	}
	if !found {
		return &domain.OperationStatus{Success: false, Message: "association not found"}, nil
	}

	f.demoteActiveLocked(projectID)
	for i := range list {
		if list[i].AssociationID == associationID {
			list[i].IsActive = true
			list[i].UpdatedAt = time.Now()
		}
	}
	return &domain.OperationStatus{Success: true}, nil
}

func (f *fakeStore) DeleteAssociation(ctx context.Context, projectID, associationID string) (*domain.OperationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := f.versions[projectID]
	for i := range list {
		if list[i].AssociationID == associationID {
			f.versions[projectID] = append(list[:i:i], list[i+1:]...)
			return &domain.OperationStatus{Success: true}, nil
		}
	}
	return &domain.OperationStatus{Success: false, Message: "association not found"}, nil
}

func (f *fakeStore) ListFiles(ctx context.Context, projectID, version string) ([]domain.FileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files[projectID+"|"+version], nil
}

func (f *fakeStore) ResolveLocation(
	ctx context.Context,
	projectID, version, fileName string,
	line int,
	column *int,
) (*domain.ResolvedLocation, error) {
	if f.resolveFn != nil {
		return f.resolveFn(fileName, line, column)
	}
	return nil, nil
}

// GetFileContent отдает симметричное окно, прижатое к границам файла
func (f *fakeStore) GetFileContent(
	ctx context.Context,
	projectID, version, filePath string,
	line, contextLines int,
) (*domain.SourceCodeContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.contentErr != nil {
		return nil, f.contentErr
	}

	text, ok := f.content[filePath]
	if !ok {
		return nil, nil
	}
	lines := strings.Split(text, "\n")

	target := line
	if target < 1 {
		target = 1
	}
	if target > len(lines) {
		target = len(lines)
	}
	start := target - contextLines
	if start < 1 {
		start = 1
	}
	end := target + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	return &domain.SourceCodeContext{
		Content:      strings.Join(lines[start-1:end], "\n"),
		StartLine:    start,
		EndLine:      end,
		TargetLine:   target,
		ContextLines: contextLines,
	}, nil
}

func (f *fakeStore) PrepareContext(
	ctx context.Context,
	projectID, version string,
	errorInfo domain.ErrorPosition,
	contextSize int,
) (*domain.DiagnosisContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.diag == nil {
		return nil, nil
	}
	out := *f.diag
	out.RelatedFiles = make([]domain.RelatedFile, len(f.diag.RelatedFiles))
	copy(out.RelatedFiles, f.diag.RelatedFiles)
	return &out, nil
}

func (f *fakeStore) demoteActiveLocked(projectID string) {
	list := f.versions[projectID]
	for i := range list {
		if list[i].IsActive {
			list[i].IsActive = false
			list[i].UpdatedAt = time.Now()
		}
	}
}

func (f *fakeStore) activeVersions(projectID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []string
	for _, v := range f.versions[projectID] {
		if v.IsActive {
			active = append(active, v.AssociationID)
		}
	}
	return active
}
