package checkoutcreate

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
	"github.com/magabrotheeeer/zen-zone/internal/services/payment"
	"github.com/magabrotheeeer/zen-zone/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) CreateCheckout(ctx context.Context, identity *models.Identity, tierID string) (string, error) {
	args := m.Called(ctx, identity, tierID)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCheckoutCreateHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	identity := &models.Identity{UserUID: "uid-1", Username: "user1", Email: "user1@example.com"}
	tierID := "7b221f5e-9f5a-4a3d-8a7e-1f2d3c4b5a69"

	tests := []struct {
		name           string
		withIdentity   bool
		requestBody    interface{}
		mockURL        string
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid checkout",
			withIdentity:   true,
			requestBody:    Request{TierID: tierID},
			mockURL:        "https://checkout.stripe.com/c/pay/cs_test_123",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "unauthorized",
			withIdentity:   false,
			requestBody:    Request{TierID: tierID},
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
			name:           "validation error - not a uuid",
			withIdentity:   true,
			requestBody:    Request{TierID: "tier-1"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field TierID can contain only uuid",
			wantStatus:     "Error",
		},
		{
			name:           "tier not found",
			withIdentity:   true,
			requestBody:    Request{TierID: tierID},
			mockErr:        repository.ErrTierNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "tier not found",
			wantStatus:     "Error",
		},
		{
			name:           "free tier rejected",
			withIdentity:   true,
			requestBody:    Request{TierID: tierID},
			mockErr:        payment.ErrFreeTierCheckout,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "free tier does not require payment",
			wantStatus:     "Error",
		},
		{
			name:           "service error",
			withIdentity:   true,
			requestBody:    Request{TierID: tierID},
			mockErr:        errors.New("stripe down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to create checkout session",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.withIdentity && (tt.mockURL != "" || tt.mockErr != nil) {
				serviceMock.On("CreateCheckout", mock.Anything, identity, tierID).
					Return(tt.mockURL, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(bodyBytes))
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

			if tt.mockURL != "" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockURL, data["redirect_url"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
