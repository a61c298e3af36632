package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcegate/internal/domain"
	"sourcegate/internal/logger"
)

func seedVersions(store *fakeStore, projectID string, versions ...string) {
	for _, v := range versions {
		store.nextID++
		store.versions[projectID] = append(store.versions[projectID], domain.SourceVersion{
			AssociationID: v,
			ProjectID:     projectID,
			Version:       v,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		})
	}
}

func TestVersionSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical three segments", "1.2.3", "1.2.3", 30},
		{"patch off by one", "1.2.1", "1.2.0", 29},
		{"minor and patch differ", "1.2.1", "1.0.0", 27},
		{"major differs", "1.2.1", "2.0.0", 26},
		{"difference of ten and more gives nothing", "1.0.0", "11.0.0", 20},
		{"unpaired tail segments are ignored", "1.2", "1.2.9", 20},
		{"non-numeric segments are skipped", "1.x.3", "1.y.3", 20},
		{"completely non-numeric", "abc", "def", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VersionSimilarity(tt.a, tt.b))
		})
	}
}

// Самосовпадение никогда не проигрывает другой версии с тем же числом сегментов
func TestVersionSimilaritySelfMatchDominates(t *testing.T) {
	versions := []string{"1.0.0", "1.2.0", "1.9.9", "2.0.0", "0.0.1", "10.4.7"}
	for _, a := range versions {
		for _, b := range versions {
			if a == b {
				continue
			}
			assert.GreaterOrEqual(t, VersionSimilarity(a, a), VersionSimilarity(a, b),
				"self score of %s must not be beaten by %s", a, b)
		}
	}
}

func TestSuggestClosestVersionTieKeepsFirst(t *testing.T) {
	// Обе версии дают одинаковый счет, побеждает первая из списка
	suggested := SuggestClosestVersion("1.5.0", []string{"1.4.0", "1.6.0"})
	assert.Equal(t, "1.4.0", suggested)
}

func TestValidateVersionExactMatch(t *testing.T) {
	store := newFakeStore()
	seedVersions(store, "p1", "1.0.0", "1.2.0", "2.0.0")
	svc := NewVersionService(store, logger.NewNop())

	validation := svc.ValidateVersion(context.Background(), "p1", "1.2.0")

	assert.True(t, validation.IsValid)
	assert.Equal(t, []string{"1.0.0", "1.2.0", "2.0.0"}, validation.AvailableVersions)
	assert.Empty(t, validation.SuggestedVersion)
}

func TestValidateVersionIsCaseSensitive(t *testing.T) {
	store := newFakeStore()
	seedVersions(store, "p1", "1.0.0-RC1")
	svc := NewVersionService(store, logger.NewNop())

	validation := svc.ValidateVersion(context.Background(), "p1", "1.0.0-rc1")
	assert.False(t, validation.IsValid)
}

func TestValidateVersionSuggestsClosest(t *testing.T) {
	store := newFakeStore()
	seedVersions(store, "p1", "1.0.0", "1.2.0", "2.0.0")
	svc := NewVersionService(store, logger.NewNop())

	validation := svc.ValidateVersion(context.Background(), "p1", "1.2.1")

	require.False(t, validation.IsValid)
	assert.Equal(t, []string{"1.0.0", "1.2.0", "2.0.0"}, validation.AvailableVersions)
	assert.Equal(t, "1.2.0", validation.SuggestedVersion)
}

func TestValidateVersionNoVersions(t *testing.T) {
	store := newFakeStore()
	svc := NewVersionService(store, logger.NewNop())

	validation := svc.ValidateVersion(context.Background(), "p1", "1.0.0")

	assert.False(t, validation.IsValid)
	assert.Empty(t, validation.AvailableVersions)
	assert.Empty(t, validation.SuggestedVersion)
}

// Сбой бэкенда не выходит наружу: невалидный результат с пустым списком
func TestValidateVersionLookupFailureIsAbsorbed(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	svc := NewVersionService(store, logger.NewNop())

	validation := svc.ValidateVersion(context.Background(), "p1", "1.0.0")

	assert.False(t, validation.IsValid)
	assert.NotNil(t, validation.AvailableVersions)
	assert.Empty(t, validation.AvailableVersions)
}
