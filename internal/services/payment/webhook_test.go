package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/zen-zone/internal/config"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

const testWebhookSecret = "whsec_test_secret"

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetTierByID(ctx context.Context, id string) (*models.Tier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tier), args.Error(1)
}

func (m *RepoMock) ActivatePaidSubscription(ctx context.Context, userUID, tierID string,
	periodStart, periodEnd time.Time) error {
	return m.Called(ctx, userUID, tierID, periodStart, periodEnd).Error(0)
}

func (m *RepoMock) DeactivateSubscription(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

type InvalidatorMock struct{ mock.Mock }

func (m *InvalidatorMock) Invalidate(userUID string) error {
	return m.Called(userUID).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingkey string, message any) error {
	return m.Called(routingkey, message).Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(repo *RepoMock, invalidator *InvalidatorMock, publisher *PublisherMock) *Service {
	cfg := config.Stripe{WebhookSecret: testWebhookSecret}
	return New(NewNoopLogger(), cfg, repo, invalidator, publisher)
}

// signedPayload собирает событие Stripe и действительную подпись к нему.
func signedPayload(t *testing.T, eventType string, object any) ([]byte, string) {
	t.Helper()

	raw, err := json.Marshal(object)
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]any{
		"id":          "evt_test",
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"data":        map[string]any{"object": json.RawMessage(raw)},
	})
	require.NoError(t, err)

	now := time.Now()
	signature := webhook.ComputeSignature(now, payload, testWebhookSecret)
	header := fmt.Sprintf("t=%d,v1=%x", now.Unix(), signature)
	return payload, header
}

func TestService_HandleWebhookCheckoutCompleted(t *testing.T) {
	repo := new(RepoMock)
	invalidator := new(InvalidatorMock)
	publisher := new(PublisherMock)
	service := newTestService(repo, invalidator, publisher)

	repo.On("ActivatePaidSubscription", mock.Anything, "uid-1", "tier-premium",
		mock.Anything, mock.Anything).Return(nil)
	invalidator.On("Invalidate", "uid-1").Return(nil)
	// В уведомление уходит актуальная почта из базы, не из метаданных.
	repo.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
		UUID:     "uid-1",
		Username: "alice",
		Email:    "alice-new@example.com",
	}, nil)
	publisher.On("Publish", "payment", models.PaymentEvent{
		Email:    "alice-new@example.com",
		Username: "alice",
		TierName: "Zen Premium",
	}).Return(nil)

	payload, header := signedPayload(t, "checkout.session.completed", map[string]any{
		"id": "cs_test",
		"metadata": map[string]string{
			"user_uid":   "uid-1",
			"username":   "alice",
			"user_email": "alice@example.com",
			"tier_id":    "tier-premium",
			"tier_name":  "Zen Premium",
		},
	})

	err := service.HandleWebhook(context.Background(), payload, header)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestService_HandleWebhookCheckoutCompletedUserLookupFallback(t *testing.T) {
	repo := new(RepoMock)
	invalidator := new(InvalidatorMock)
	publisher := new(PublisherMock)
	service := newTestService(repo, invalidator, publisher)

	repo.On("ActivatePaidSubscription", mock.Anything, "uid-1", "tier-premium",
		mock.Anything, mock.Anything).Return(nil)
	invalidator.On("Invalidate", "uid-1").Return(nil)
	repo.On("GetUser", mock.Anything, "uid-1").Return(nil, errors.New("db down"))
	publisher.On("Publish", "payment", models.PaymentEvent{
		Email:    "alice@example.com",
		Username: "alice",
		TierName: "Zen Premium",
	}).Return(nil)

	payload, header := signedPayload(t, "checkout.session.completed", map[string]any{
		"id": "cs_test",
		"metadata": map[string]string{
			"user_uid":   "uid-1",
			"username":   "alice",
			"user_email": "alice@example.com",
			"tier_id":    "tier-premium",
			"tier_name":  "Zen Premium",
		},
	})

	// Недоступность базы не срывает активацию, письмо уходит
	// на адрес из метаданных сессии.
	err := service.HandleWebhook(context.Background(), payload, header)
	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestService_HandleWebhookSubscriptionDeleted(t *testing.T) {
	repo := new(RepoMock)
	invalidator := new(InvalidatorMock)
	publisher := new(PublisherMock)
	service := newTestService(repo, invalidator, publisher)

	repo.On("DeactivateSubscription", mock.Anything, "uid-1").Return(1, nil)
	invalidator.On("Invalidate", "uid-1").Return(nil)

	payload, header := signedPayload(t, "customer.subscription.deleted", map[string]any{
		"id":       "sub_test",
		"metadata": map[string]string{"user_uid": "uid-1"},
	})

	err := service.HandleWebhook(context.Background(), payload, header)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestService_HandleWebhookBadSignature(t *testing.T) {
	repo := new(RepoMock)
	service := newTestService(repo, new(InvalidatorMock), new(PublisherMock))

	payload, _ := signedPayload(t, "checkout.session.completed", map[string]any{"id": "cs_test"})

	err := service.HandleWebhook(context.Background(), payload, "t=1,v1=deadbeef")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "ActivatePaidSubscription",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_HandleWebhookUnknownEventIgnored(t *testing.T) {
	repo := new(RepoMock)
	service := newTestService(repo, new(InvalidatorMock), new(PublisherMock))

	payload, header := signedPayload(t, "invoice.paid", map[string]any{"id": "in_test"})

	err := service.HandleWebhook(context.Background(), payload, header)
	assert.NoError(t, err)
}

func TestService_HandleWebhookMissingMetadata(t *testing.T) {
	repo := new(RepoMock)
	service := newTestService(repo, new(InvalidatorMock), new(PublisherMock))

	payload, header := signedPayload(t, "checkout.session.completed", map[string]any{
		"id": "cs_test",
	})

	// Сессия без метаданных логируется и пропускается, ретрай не нужен.
	err := service.HandleWebhook(context.Background(), payload, header)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "ActivatePaidSubscription",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
