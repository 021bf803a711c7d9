package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/zen-zone/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListTiers(ctx context.Context) ([]*models.Tier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tier), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestTierListHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	tiers := []*models.Tier{
		{ID: "tier-free", Name: "Free", Price: 0},
		{ID: "tier-premium", Name: "Zen Premium", Price: 999},
	}

	tests := []struct {
		name           string
		mockTiers      []*models.Tier
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "tiers listed",
			mockTiers:      tiers,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "empty catalog",
			mockTiers:      []*models.Tier{},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "service error",
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to list tiers",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			serviceMock.On("ListTiers", mock.Anything).
				Return(tt.mockTiers, tt.mockErr).Once()

			req := httptest.NewRequest(http.MethodGet, "/tiers", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			if len(tt.mockTiers) > 0 {
				data, ok := got["data"].([]any)
				require.True(t, ok)
				require.Len(t, data, len(tt.mockTiers))
				first, ok := data[0].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "Free", first["name"])
				assert.Equal(t, float64(0), first["price"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
