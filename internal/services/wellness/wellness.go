// Package wellness объединяет настройки таймера, таймеры платформ и
// чекины настроения с начислением очков.
package wellness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/metrics"
	"github.com/magabrotheeeer/zen-zone/internal/models"
	"github.com/magabrotheeeer/zen-zone/internal/services/achievement"
	"github.com/magabrotheeeer/zen-zone/internal/storage/repository"
)

// DefaultTimerLimit лимит таймера прокрутки в секундах по умолчанию.
const DefaultTimerLimit = 900

// FirstCheckinAchievement имя достижения за первый чекин настроения.
const FirstCheckinAchievement = "First Step"

// ErrInvalidMood означает значение настроения вне шкалы.
var ErrInvalidMood = errors.New("invalid mood value")

// SettingsRepository описывает контракт хранилища настроек.
type SettingsRepository interface {
	GetUserSettings(ctx context.Context, userUID string) (*models.UserSettings, error)
	UpsertUserSettings(ctx context.Context, settings *models.UserSettings) error
	GetPlatformTimers(ctx context.Context, userUID string) ([]models.PlatformTimer, error)
	UpsertPlatformTimers(ctx context.Context, userUID string, timers []models.PlatformTimer) error
}

// Unlocker выдает системные достижения.
type Unlocker interface {
	UnlockByName(ctx context.Context, identity *models.Identity, name string) (*models.Achievement, error)
}

// CheckinResult итог чекина настроения.
type CheckinResult struct {
	Points       int                 `json:"points"`
	WithinBudget bool                `json:"within_budget"`
	Unlocked     *models.Achievement `json:"unlocked,omitempty"`
}

// Insights сводка цифрового благополучия для премиум-пользователей.
type Insights struct {
	TimerLimit        int                    `json:"timer_limit"`
	Timers            []models.PlatformTimer `json:"timers"`
	TotalLimitMinutes int                    `json:"total_limit_minutes"`
	TotalSpentMinutes int                    `json:"total_spent_minutes"`
	WithinBudget      bool                   `json:"within_budget"`
}

// Service бизнес-логика раздела wellness.
type Service struct {
	log      *slog.Logger
	repo     SettingsRepository
	unlocker Unlocker
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo SettingsRepository, unlocker Unlocker) *Service {
	return &Service{log: log, repo: repo, unlocker: unlocker}
}

// GetSettings возвращает настройки пользователя. Отсутствующие настройки
// заменяются значениями по умолчанию без записи в базу.
func (s *Service) GetSettings(ctx context.Context, userUID string) (*models.UserSettings, error) {
	const op = "wellness.GetSettings"

	settings, err := s.repo.GetUserSettings(ctx, userUID)
	if errors.Is(err, repository.ErrSettingsNotFound) {
		return &models.UserSettings{UserUID: userUID, TimerLimit: DefaultTimerLimit}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return settings, nil
}

// UpdateSettings сохраняет настройки пользователя.
func (s *Service) UpdateSettings(ctx context.Context, userUID string, timerLimit int) error {
	const op = "wellness.UpdateSettings"

	err := s.repo.UpsertUserSettings(ctx, &models.UserSettings{
		UserUID:    userUID,
		TimerLimit: timerLimit,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPlatformTimers возвращает таймеры платформ пользователя.
func (s *Service) GetPlatformTimers(ctx context.Context, userUID string) ([]models.PlatformTimer, error) {
	const op = "wellness.GetPlatformTimers"

	timers, err := s.repo.GetPlatformTimers(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return timers, nil
}

// UpdatePlatformTimers сохраняет таймеры платформ целиком.
func (s *Service) UpdatePlatformTimers(ctx context.Context, userUID string, timers []models.PlatformTimer) error {
	const op = "wellness.UpdatePlatformTimers"

	if err := s.repo.UpsertPlatformTimers(ctx, userUID, timers); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MoodCheckin обрабатывает чекин настроения: проверяет вход, читает
// состояние таймеров, считает очки и выдает достижение за первый чекин.
// Сбой выдачи достижения чекин не ломает.
func (s *Service) MoodCheckin(ctx context.Context, identity *models.Identity,
	before, after models.Mood) (*CheckinResult, error) {
	const op = "wellness.MoodCheckin"

	if !before.Valid() || !after.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidMood)
	}

	timers, err := s.repo.GetPlatformTimers(ctx, identity.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	withinBudget := models.WithinBudget(timers)

	result := &CheckinResult{
		Points:       achievement.ComputeSessionPoints(before, after, withinBudget),
		WithinBudget: withinBudget,
	}

	unlocked, err := s.unlocker.UnlockByName(ctx, identity, FirstCheckinAchievement)
	if err != nil {
		s.log.Error("failed to unlock first checkin achievement", sl.Err(err))
	} else {
		result.Unlocked = unlocked
	}

	metrics.MoodCheckins.Inc()
	return result, nil
}

// GetInsights собирает сводку по таймерам и лимитам пользователя.
func (s *Service) GetInsights(ctx context.Context, userUID string) (*Insights, error) {
	const op = "wellness.GetInsights"

	settings, err := s.GetSettings(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	timers, err := s.repo.GetPlatformTimers(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	insights := &Insights{
		TimerLimit: settings.TimerLimit,
		Timers:     timers,
	}
	for _, t := range timers {
		insights.TotalLimitMinutes += t.LimitMinutes
		insights.TotalSpentMinutes += t.SpentMinutes
	}
	insights.WithinBudget = models.WithinBudget(timers)
	return insights, nil
}
