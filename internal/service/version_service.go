package service

import (
	"context"
	"strconv"
	"strings"

	"sourcegate/internal/backend"
	"sourcegate/internal/domain"
	"sourcegate/internal/logger"
)

// VersionService сверяет версию из события ошибки со списком загруженных
// версий исходников и при несовпадении подбирает ближайшую.
type VersionService struct {
	store backend.Store
	log   *logger.Logger
}

func NewVersionService(store backend.Store, log *logger.Logger) *VersionService {
	return &VersionService{
		store: store,
		log:   log,
	}
}

// ValidateVersion проверяет, загружены ли исходники для версии, которую
// сообщило событие ошибки. Сбой обращения к бэкенду гасится: возвращается
// невалидный результат с пустым списком, чтобы не блокировать интерфейс.
func (s *VersionService) ValidateVersion(ctx context.Context, projectID, reportedVersion string) domain.VersionValidation {
	empty := domain.VersionValidation{
		IsValid:           false,
		AvailableVersions: []string{},
	}

	if projectID == "" {
		s.log.Warn("validate version called without project id")
		return empty
	}

	versions, err := s.store.ListSourceVersions(ctx, projectID)
	if err != nil {
		s.log.Warn("failed to list source versions",
			"project_id", projectID,
			"reported_version", reportedVersion,
			"error", err,
		)
		return empty
	}

	available := make([]string, 0, len(versions))
	for _, v := range versions {
		available = append(available, v.Version)
	}

	// Совпадение строгое: без нормализации и без учета регистра
	for _, v := range available {
		if v == reportedVersion {
			return domain.VersionValidation{
				IsValid:           true,
				AvailableVersions: available,
			}
		}
	}

	return domain.VersionValidation{
		IsValid:           false,
		AvailableVersions: available,
		SuggestedVersion:  SuggestClosestVersion(reportedVersion, available),
	}
}

// VersionSimilarity считает близость двух версий по сегментам: сегменты
// сравниваются попарно по индексу, совпадение дает 10 очков, расхождение —
// max(0, 10-|разница|). Нечисловые и непарные сегменты пропускаются.
// Эвристика намеренно не знает про семантику major/minor/patch.
func VersionSimilarity(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}

	score := 0
	for i := 0; i < n; i++ {
		av, errA := strconv.Atoi(as[i])
		bv, errB := strconv.Atoi(bs[i])
		if errA != nil || errB != nil {
			continue
		}
		if av == bv {
			score += 10
			continue
		}
		diff := av - bv
		if diff < 0 {
			diff = -diff
		}
		if diff < 10 {
			score += 10 - diff
		}
	}
	return score
}

// SuggestClosestVersion возвращает версию с максимальным счетом близости.
// При равенстве очков побеждает первая по порядку списка.
func SuggestClosestVersion(reported string, available []string) string {
	best := ""
	bestScore := -1
	for _, v := range available {
		if score := VersionSimilarity(reported, v); score > bestScore {
			bestScore = score
			best = v
		}
	}
	return best
}
