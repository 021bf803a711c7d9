package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// GetUserSettings возвращает настройки пользователя.
func (s *Storage) GetUserSettings(ctx context.Context, userUID string) (*models.UserSettings, error) {
	const op = "storage.GetUserSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT user_uid, timer_limit FROM user_settings WHERE user_uid = $1`, userUID)

	var settings models.UserSettings
	err := row.Scan(&settings.UserUID, &settings.TimerLimit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrSettingsNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &settings, nil
}

// UpsertUserSettings создает или обновляет настройки пользователя.
func (s *Storage) UpsertUserSettings(ctx context.Context, settings *models.UserSettings) error {
	const op = "storage.UpsertUserSettings"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_settings (user_uid, timer_limit)
			  VALUES ($1, $2)
			  ON CONFLICT (user_uid)
			  DO UPDATE SET timer_limit = EXCLUDED.timer_limit, updated_at = now()`
	_, err := s.DB.ExecContext(ctx, query, settings.UserUID, settings.TimerLimit)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPlatformTimers возвращает таймеры платформ пользователя. Если записей
// нет, возвращается пустой срез.
func (s *Storage) GetPlatformTimers(ctx context.Context, userUID string) ([]models.PlatformTimer, error) {
	const op = "storage.GetPlatformTimers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT timers FROM platform_timers WHERE user_uid = $1`, userUID)

	var raw []byte
	err := row.Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.PlatformTimer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var timers []models.PlatformTimer
	if err := json.Unmarshal(raw, &timers); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return timers, nil
}

// UpsertPlatformTimers сохраняет таймеры платформ пользователя целиком.
func (s *Storage) UpsertPlatformTimers(ctx context.Context, userUID string, timers []models.PlatformTimer) error {
	const op = "storage.UpsertPlatformTimers"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := json.Marshal(timers)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO platform_timers (user_uid, timers)
			  VALUES ($1, $2)
			  ON CONFLICT (user_uid)
			  DO UPDATE SET timers = EXCLUDED.timers, updated_at = now()`
	if _, err := s.DB.ExecContext(ctx, query, userUID, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
