package wellness

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/zen-zone/internal/models"
	"github.com/magabrotheeeer/zen-zone/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUserSettings(ctx context.Context, userUID string) (*models.UserSettings, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSettings), args.Error(1)
}

func (m *RepoMock) UpsertUserSettings(ctx context.Context, settings *models.UserSettings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *RepoMock) GetPlatformTimers(ctx context.Context, userUID string) ([]models.PlatformTimer, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlatformTimer), args.Error(1)
}

func (m *RepoMock) UpsertPlatformTimers(ctx context.Context, userUID string, timers []models.PlatformTimer) error {
	return m.Called(ctx, userUID, timers).Error(0)
}

type UnlockerMock struct{ mock.Mock }

func (m *UnlockerMock) UnlockByName(ctx context.Context, identity *models.Identity, name string) (*models.Achievement, error) {
	args := m.Called(ctx, identity, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Achievement), args.Error(1)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var testIdentity = &models.Identity{
	UserUID:  "uid-1",
	Username: "alice",
	Email:    "alice@example.com",
}

func TestService_GetSettingsDefaults(t *testing.T) {
	repo := new(RepoMock)
	service := New(NewNoopLogger(), repo, new(UnlockerMock))

	repo.On("GetUserSettings", mock.Anything, "uid-1").
		Return(nil, repository.ErrSettingsNotFound)

	got, err := service.GetSettings(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimerLimit, got.TimerLimit)
}

func TestService_GetSettingsStored(t *testing.T) {
	repo := new(RepoMock)
	service := New(NewNoopLogger(), repo, new(UnlockerMock))

	repo.On("GetUserSettings", mock.Anything, "uid-1").
		Return(&models.UserSettings{UserUID: "uid-1", TimerLimit: 600}, nil)

	got, err := service.GetSettings(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 600, got.TimerLimit)
}

func TestService_UpdateSettings(t *testing.T) {
	repo := new(RepoMock)
	service := New(NewNoopLogger(), repo, new(UnlockerMock))

	repo.On("UpsertUserSettings", mock.Anything,
		&models.UserSettings{UserUID: "uid-1", TimerLimit: 1200}).Return(nil)

	require.NoError(t, service.UpdateSettings(context.Background(), "uid-1", 1200))
	repo.AssertExpectations(t)
}

func TestService_MoodCheckin(t *testing.T) {
	overBudget := []models.PlatformTimer{
		{Name: "instagram", LimitMinutes: 30, SpentMinutes: 45},
	}
	underBudget := []models.PlatformTimer{
		{Name: "instagram", LimitMinutes: 30, SpentMinutes: 10},
	}

	tests := []struct {
		name       string
		before     models.Mood
		after      models.Mood
		timers     []models.PlatformTimer
		wantPoints int
		wantBudget bool
	}{
		{
			name:   "обычный чекин без лимитов",
			before: models.MoodNeutral, after: models.MoodNeutral,
			timers:     []models.PlatformTimer{},
			wantPoints: 35, wantBudget: true,
		},
		{
			name:   "превышение лимита лишает бонуса",
			before: models.MoodNeutral, after: models.MoodNeutral,
			timers:     overBudget,
			wantPoints: 10, wantBudget: false,
		},
		{
			name:   "восстановление настроения в пределах лимита",
			before: models.MoodTerrible, after: models.MoodGood,
			timers:     underBudget,
			wantPoints: 55, wantBudget: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			unlocker := new(UnlockerMock)
			service := New(NewNoopLogger(), repo, unlocker)

			repo.On("GetPlatformTimers", mock.Anything, "uid-1").Return(tt.timers, nil)
			unlocker.On("UnlockByName", mock.Anything, testIdentity, FirstCheckinAchievement).
				Return(nil, nil)

			got, err := service.MoodCheckin(context.Background(), testIdentity, tt.before, tt.after)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints, got.Points)
			assert.Equal(t, tt.wantBudget, got.WithinBudget)
		})
	}
}

func TestService_MoodCheckinInvalidMood(t *testing.T) {
	service := New(NewNoopLogger(), new(RepoMock), new(UnlockerMock))

	_, err := service.MoodCheckin(context.Background(), testIdentity, "angry", models.MoodGood)
	assert.ErrorIs(t, err, ErrInvalidMood)
}

func TestService_MoodCheckinFirstUnlock(t *testing.T) {
	repo := new(RepoMock)
	unlocker := new(UnlockerMock)
	service := New(NewNoopLogger(), repo, unlocker)

	repo.On("GetPlatformTimers", mock.Anything, "uid-1").
		Return([]models.PlatformTimer{}, nil)
	unlocker.On("UnlockByName", mock.Anything, testIdentity, FirstCheckinAchievement).
		Return(&models.Achievement{Name: FirstCheckinAchievement, Points: 10}, nil)

	got, err := service.MoodCheckin(context.Background(), testIdentity,
		models.MoodNeutral, models.MoodGood)
	require.NoError(t, err)
	require.NotNil(t, got.Unlocked)
	assert.Equal(t, FirstCheckinAchievement, got.Unlocked.Name)
}

func TestService_MoodCheckinUnlockFailureIsNotFatal(t *testing.T) {
	repo := new(RepoMock)
	unlocker := new(UnlockerMock)
	service := New(NewNoopLogger(), repo, unlocker)

	repo.On("GetPlatformTimers", mock.Anything, "uid-1").
		Return([]models.PlatformTimer{}, nil)
	unlocker.On("UnlockByName", mock.Anything, testIdentity, FirstCheckinAchievement).
		Return(nil, errors.New("database is down"))

	got, err := service.MoodCheckin(context.Background(), testIdentity,
		models.MoodNeutral, models.MoodGood)
	require.NoError(t, err)
	assert.Nil(t, got.Unlocked)
	assert.Equal(t, 35, got.Points)
}
