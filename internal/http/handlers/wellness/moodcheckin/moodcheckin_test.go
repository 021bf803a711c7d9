package moodcheckin

import (
	"bytes"
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

	"github.com/magabrotheeeer/zen-zone/internal/http/middlewarectx"
	"github.com/magabrotheeeer/zen-zone/internal/models"
	"github.com/magabrotheeeer/zen-zone/internal/services/wellness"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) MoodCheckin(ctx context.Context, identity *models.Identity,
	before, after models.Mood) (*wellness.CheckinResult, error) {
	args := m.Called(ctx, identity, before, after)
	result, _ := args.Get(0).(*wellness.CheckinResult)
	return result, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestMoodCheckinHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	identity := &models.Identity{UserUID: "uid-1", Username: "user1", Email: "user1@example.com"}

	tests := []struct {
		name           string
		withIdentity   bool
		requestBody    interface{}
		mockResult     *wellness.CheckinResult
		mockErr        error
		wantStatusCode int
		wantPoints     float64
		wantError      string
		wantStatus     string
	}{
		{
			name:         "rebound from terrible earns bonus",
			withIdentity: true,
			requestBody:  Request{MoodBefore: "terrible", MoodAfter: "good"},
			mockResult: &wellness.CheckinResult{
				Points:       30,
				WithinBudget: false,
			},
			wantStatusCode: http.StatusOK,
			wantPoints:     30,
			wantStatus:     "OK",
		},
		{
			name:           "unauthorized",
			withIdentity:   false,
			requestBody:    Request{MoodBefore: "neutral", MoodAfter: "good"},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
			wantStatus:     "Error",
		},
		{
			name:           "invalid json body",
			withIdentity:   true,
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - unknown mood",
			withIdentity:   true,
			requestBody:    Request{MoodBefore: "meh", MoodAfter: "good"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field MoodBefore must be one of the allowed values",
			wantStatus:     "Error",
		},
		{
			name:           "service rejects mood",
			withIdentity:   true,
			requestBody:    Request{MoodBefore: "neutral", MoodAfter: "good"},
			mockErr:        wellness.ErrInvalidMood,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid mood value",
			wantStatus:     "Error",
		},
		{
			name:           "service error",
			withIdentity:   true,
			requestBody:    Request{MoodBefore: "neutral", MoodAfter: "good"},
			mockErr:        errors.New("storage down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to process checkin",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockResult != nil || tt.mockErr != nil {
				body := tt.requestBody.(Request)
				serviceMock.On("MoodCheckin", mock.Anything, identity,
					models.Mood(body.MoodBefore), models.Mood(body.MoodAfter)).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/wellness/checkin", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withIdentity {
				ctx = context.WithValue(ctx, middlewarectx.IdentityKey, identity)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			if tt.mockResult != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantPoints, data["points"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
