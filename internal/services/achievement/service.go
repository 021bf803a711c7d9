package achievement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/metrics"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// Repository описывает контракт хранилища достижений.
type Repository interface {
	// ListAchievements возвращает каталог с отметками о получении.
	ListAchievements(ctx context.Context, userUID string) ([]*models.Achievement, error)

	// UnlockAchievement идемпотентно выдает достижение.
	UnlockAchievement(ctx context.Context, userUID, achievementID string) (*models.Achievement, error)

	// UnlockAchievementByName идемпотентно выдает достижение по имени.
	UnlockAchievementByName(ctx context.Context, userUID, name string) (*models.Achievement, error)
}

// Publisher публикует уведомления о полученных достижениях.
type Publisher interface {
	Publish(routingkey string, message any) error
}

// Service движок достижений поверх базы данных.
type Service struct {
	log       *slog.Logger
	repo      Repository
	publisher Publisher
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, publisher Publisher) *Service {
	return &Service{log: log, repo: repo, publisher: publisher}
}

// List возвращает каталог достижений пользователя.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.Achievement, error) {
	const op = "achievement.List"
	result, err := s.repo.ListAchievements(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Unlock выдает достижение пользователю. Повторная выдача и неизвестный
// идентификатор возвращают nil без ошибки. Уведомление отправляется
// только при первой выдаче и не влияет на результат.
func (s *Service) Unlock(ctx context.Context, identity *models.Identity, achievementID string) (*models.Achievement, error) {
	const op = "achievement.Unlock"

	unlocked, err := s.repo.UnlockAchievement(ctx, identity.UserUID, achievementID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.notifyUnlocked(identity, unlocked), nil
}

// UnlockByName выдает системное достижение по имени с той же семантикой,
// что и Unlock.
func (s *Service) UnlockByName(ctx context.Context, identity *models.Identity, name string) (*models.Achievement, error) {
	const op = "achievement.UnlockByName"

	unlocked, err := s.repo.UnlockAchievementByName(ctx, identity.UserUID, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.notifyUnlocked(identity, unlocked), nil
}

func (s *Service) notifyUnlocked(identity *models.Identity, unlocked *models.Achievement) *models.Achievement {
	if unlocked == nil {
		return nil
	}
	metrics.AchievementsUnlocked.Inc()

	event := models.AchievementEvent{
		Email:           identity.Email,
		Username:        identity.Username,
		AchievementName: unlocked.Name,
		Points:          unlocked.Points,
	}
	if err := s.publisher.Publish("achievement", event); err != nil {
		s.log.Error("failed to publish achievement notification", sl.Err(err))
	}
	return unlocked
}
