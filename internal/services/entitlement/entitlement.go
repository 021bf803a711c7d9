// Package entitlement разрешает права доступа пользователя: активная
// подписка вместе с тарифом и признак премиума, вычисленный из них.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/models"
	"github.com/magabrotheeeer/zen-zone/internal/storage/repository"
)

const (
	freeTierName = "Free"
	cacheTTL     = 5 * time.Minute
)

// SubscriptionRepository описывает контракт хранилища подписок.
type SubscriptionRepository interface {
	// FindActiveEntitlement возвращает активную подписку вместе с тарифом.
	FindActiveEntitlement(ctx context.Context, userUID string) (*models.Subscription, error)

	// CreateFreeSubscription идемпотентно создает бесплатную подписку.
	CreateFreeSubscription(ctx context.Context, userUID, tierID string) (*models.Subscription, error)

	// GetTierByName возвращает тариф по имени.
	GetTierByName(ctx context.Context, name string) (*models.Tier, error)
}

// Cache описывает контракт кеша прав доступа.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service разрешает права доступа с кешированием и самовосстановлением:
// пользователю без подписки создается бесплатная.
type Service struct {
	log   *slog.Logger
	repo  SubscriptionRepository
	cache Cache
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo SubscriptionRepository, cache Cache) *Service {
	return &Service{log: log, repo: repo, cache: cache}
}

func cacheKey(userUID string) string {
	return "entitlement:" + userUID
}

// Resolve возвращает права доступа пользователя. Подписка и тариф всегда
// читаются вместе, по отдельности они не кешируются и не возвращаются.
func (s *Service) Resolve(ctx context.Context, userUID string) (*models.Entitlement, error) {
	const op = "entitlement.Resolve"

	var cached models.Entitlement
	found, err := s.cache.Get(cacheKey(userUID), &cached)
	if err != nil {
		s.log.Warn("entitlement cache read failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sub, err := s.repo.FindActiveEntitlement(ctx, userUID)
	if errors.Is(err, repository.ErrSubscriptionNotFound) {
		sub, err = s.provisionFreeTier(ctx, userUID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if sub == nil {
			// Бесплатный тариф не настроен: права пустые, это не сбой.
			return &models.Entitlement{}, nil
		}
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &models.Entitlement{
		Subscription: sub,
		IsSubscribed: models.ComputeEntitlement(sub).IsSubscribed,
	}
	if err := s.cache.Set(cacheKey(userUID), result, cacheTTL); err != nil {
		s.log.Warn("entitlement cache write failed", sl.Err(err))
	}
	return result, nil
}

// Invalidate сбрасывает кеш прав пользователя. Вызывается при выходе
// и при изменении подписки через вебхук.
func (s *Service) Invalidate(userUID string) error {
	return s.cache.Invalidate(cacheKey(userUID))
}

// provisionFreeTier создает пользователю бесплатную подписку.
// Отсутствие тарифа Free в базе означает ошибку конфигурации: она
// логируется, но пользователя не блокирует.
func (s *Service) provisionFreeTier(ctx context.Context, userUID string) (*models.Subscription, error) {
	tier, err := s.repo.GetTierByName(ctx, freeTierName)
	if errors.Is(err, repository.ErrTierNotFound) {
		s.log.Error("free tier is not seeded, cannot provision subscription",
			slog.String("user_uid", userUID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.CreateFreeSubscription(ctx, userUID, tier.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("provisioned free subscription",
		slog.String("user_uid", userUID))
	return sub, nil
}
