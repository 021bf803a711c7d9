package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// FindActiveEntitlement возвращает активную подписку пользователя вместе с
// тарифом одним запросом. Отсутствие строки возвращается как
// ErrSubscriptionNotFound и означает "никогда не подписывался".
func (s *Storage) FindActiveEntitlement(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.FindActiveEntitlement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.user_uid, s.tier_id, s.active,
				s.current_period_start, s.current_period_end,
				t.id, t.name, t.description, t.price, t.features
			  FROM subscriptions s
			  JOIN subscription_tiers t ON t.id = s.tier_id
			  WHERE s.user_uid = $1 AND s.active`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var sub models.Subscription
	err := row.Scan(&sub.ID, &sub.UserUID, &sub.TierID, &sub.Active,
		&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd,
		&sub.Tier.ID, &sub.Tier.Name, &sub.Tier.Description,
		&sub.Tier.Price, &sub.Tier.Features)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// CreateFreeSubscription создаёт активную подписку на бесплатный тариф,
// если активной подписки у пользователя ещё нет. Повторные и конкурентные
// вызовы не создают дубликатов: вставка идёт через ON CONFLICT по
// частичному уникальному индексу, итоговая строка перечитывается.
func (s *Storage) CreateFreeSubscription(ctx context.Context, userUID, tierID string) (*models.Subscription, error) {
	const op = "storage.CreateFreeSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, tier_id, active)
			  VALUES ($1, $2, TRUE)
			  ON CONFLICT (user_uid) WHERE active DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, userUID, tierID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := s.FindActiveEntitlement(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ActivatePaidSubscription переводит пользователя на платный тариф:
// текущая активная подписка деактивируется, новая строка вставляется в
// одной транзакции, чтобы никогда не существовало двух активных подписок.
func (s *Storage) ActivatePaidSubscription(ctx context.Context, userUID, tierID string,
	periodStart, periodEnd time.Time) error {
	const op = "storage.ActivatePaidSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE subscriptions SET active = FALSE WHERE user_uid = $1 AND active`,
		userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO subscriptions (user_uid, tier_id, active, current_period_start, current_period_end)
		 VALUES ($1, $2, TRUE, $3, $4)`,
		userUID, tierID, periodStart, periodEnd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeactivateSubscription снимает признак активности с текущей подписки
// пользователя и возвращает количество затронутых строк.
func (s *Storage) DeactivateSubscription(ctx context.Context, userUID string) (int, error) {
	const op = "storage.DeactivateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE subscriptions SET active = FALSE WHERE user_uid = $1 AND active`, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
