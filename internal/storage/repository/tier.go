package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// ListTiers возвращает каталог тарифов, отсортированный по цене по возрастанию.
func (s *Storage) ListTiers(ctx context.Context) ([]*models.Tier, error) {
	const op = "storage.ListTiers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, features
			  FROM subscription_tiers
			  ORDER BY price ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var tiers []*models.Tier
	for rows.Next() {
		var tier models.Tier
		if err := rows.Scan(&tier.ID, &tier.Name, &tier.Description,
			&tier.Price, &tier.Features); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tiers = append(tiers, &tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tiers, nil
}

// GetTierByID возвращает тариф по его идентификатору.
func (s *Storage) GetTierByID(ctx context.Context, id string) (*models.Tier, error) {
	const op = "storage.GetTierByID"
	query := `SELECT id, name, description, price, features
			  FROM subscription_tiers WHERE id = $1`
	return s.scanTier(ctx, op, query, id)
}

// GetTierByName возвращает тариф по названию. Используется для поиска
// бесплатного тарифа при автоматическом создании подписки.
func (s *Storage) GetTierByName(ctx context.Context, name string) (*models.Tier, error) {
	const op = "storage.GetTierByName"
	query := `SELECT id, name, description, price, features
			  FROM subscription_tiers WHERE name = $1`
	return s.scanTier(ctx, op, query, name)
}

func (s *Storage) scanTier(ctx context.Context, op, query string, arg any) (*models.Tier, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, query, arg)

	var tier models.Tier
	err := row.Scan(&tier.ID, &tier.Name, &tier.Description, &tier.Price, &tier.Features)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrTierNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &tier, nil
}
