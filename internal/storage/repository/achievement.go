package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// ListAchievements возвращает каталог достижений с отметками о получении
// для конкретного пользователя.
func (s *Storage) ListAchievements(ctx context.Context, userUID string) ([]*models.Achievement, error) {
	const op = "storage.ListAchievements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT a.id, a.name, a.description, a.points, a.icon, ua.completed_at
			  FROM achievements a
			  LEFT JOIN user_achievements ua
			    ON ua.achievement_id = a.id AND ua.user_uid = $1
			  ORDER BY a.points ASC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Achievement
	for rows.Next() {
		var a models.Achievement
		var completedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Points,
			&a.Icon, &completedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if completedAt.Valid {
			a.Earned = true
			a.EarnedAt = &completedAt.Time
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UnlockAchievement отмечает достижение полученным. Вставка идемпотентна:
// повторный вызов и неизвестный идентификатор возвращают nil без ошибки,
// достижение возвращается только при первом получении.
func (s *Storage) UnlockAchievement(ctx context.Context, userUID, achievementID string) (*models.Achievement, error) {
	const op = "storage.UnlockAchievement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_achievements (user_uid, achievement_id)
			  SELECT $1, a.id FROM achievements a WHERE a.id = $2
			  ON CONFLICT (user_uid, achievement_id) DO NOTHING
			  RETURNING achievement_id, completed_at`
	row := s.DB.QueryRowContext(ctx, query, userUID, achievementID)

	var id string
	var completedAt sql.NullTime
	err := row.Scan(&id, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Уже получено или неизвестный идентификатор.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.achievementDetail(ctx, op, id, completedAt)
}

// UnlockAchievementByName работает как UnlockAchievement, но ищет
// достижение по имени. Используется движком для системных достижений.
func (s *Storage) UnlockAchievementByName(ctx context.Context, userUID, name string) (*models.Achievement, error) {
	const op = "storage.UnlockAchievementByName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_achievements (user_uid, achievement_id)
			  SELECT $1, a.id FROM achievements a WHERE a.name = $2
			  ON CONFLICT (user_uid, achievement_id) DO NOTHING
			  RETURNING achievement_id, completed_at`
	row := s.DB.QueryRowContext(ctx, query, userUID, name)

	var id string
	var completedAt sql.NullTime
	err := row.Scan(&id, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.achievementDetail(ctx, op, id, completedAt)
}

func (s *Storage) achievementDetail(ctx context.Context, op, id string, completedAt sql.NullTime) (*models.Achievement, error) {
	a := &models.Achievement{ID: id, Earned: true}
	if completedAt.Valid {
		a.EarnedAt = &completedAt.Time
	}
	detail := s.DB.QueryRowContext(ctx,
		`SELECT name, description, points, icon FROM achievements WHERE id = $1`, id)
	if err := detail.Scan(&a.Name, &a.Description, &a.Points, &a.Icon); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
