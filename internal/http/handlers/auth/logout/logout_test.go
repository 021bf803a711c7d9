package logout

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

	"github.com/magabrotheeeer/zen-zone/internal/http/middlewarectx"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SignOut(ctx context.Context) {
	m.Called(ctx)
}

type InvalidatorMock struct {
	mock.Mock
}

func (m *InvalidatorMock) Invalidate(userUID string) error {
	args := m.Called(userUID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLogoutHandler_ServeHTTP(t *testing.T) {
	identity := &models.Identity{UserUID: "uid-1", Username: "user1", Email: "user1@example.com"}

	t.Run("подписанный пользователь выходит и кэш сбрасывается", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("SignOut", mock.Anything).Once()
		invalidatorMock := new(InvalidatorMock)
		invalidatorMock.On("Invalidate", identity.UserUID).Return(nil).Once()

		handler := New(newNoopLogger(), serviceMock, invalidatorMock)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.IdentityKey, identity)
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])

		serviceMock.AssertExpectations(t)
		invalidatorMock.AssertExpectations(t)
	})

	t.Run("сбой сброса кэша не ломает выход", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("SignOut", mock.Anything).Once()
		invalidatorMock := new(InvalidatorMock)
		invalidatorMock.On("Invalidate", identity.UserUID).
			Return(errors.New("redis down")).Once()

		handler := New(newNoopLogger(), serviceMock, invalidatorMock)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.IdentityKey, identity)
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("без личности в контексте возвращается 401", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock), new(InvalidatorMock))

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
