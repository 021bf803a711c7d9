// Package payment интегрирует оплату подписок через Stripe: создание
// checkout-сессий, портал управления и обработку вебхуков.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v83"
	bpsession "github.com/stripe/stripe-go/v83/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v83/checkout/session"
	"github.com/stripe/stripe-go/v83/customer"

	"github.com/magabrotheeeer/zen-zone/internal/config"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// Ошибки уровня сервиса.
var (
	ErrFreeTierCheckout = errors.New("checkout is not available for the free tier")
	ErrNoRedirectURL    = errors.New("stripe did not return a redirect url")
)

// SubscriptionRepository описывает контракт хранилища для оплаты.
type SubscriptionRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetTierByID(ctx context.Context, id string) (*models.Tier, error)
	ActivatePaidSubscription(ctx context.Context, userUID, tierID string,
		periodStart, periodEnd time.Time) error
	DeactivateSubscription(ctx context.Context, userUID string) (int, error)
}

// Invalidator сбрасывает кеш прав после изменения подписки.
type Invalidator interface {
	Invalidate(userUID string) error
}

// Publisher публикует уведомления об оплате.
type Publisher interface {
	Publish(routingkey string, message any) error
}

// Service оформляет подписки через Stripe.
type Service struct {
	log         *slog.Logger
	cfg         config.Stripe
	repo        SubscriptionRepository
	invalidator Invalidator
	publisher   Publisher
}

// New создает новый экземпляр Service и задает API-ключ Stripe.
func New(log *slog.Logger, cfg config.Stripe, repo SubscriptionRepository,
	invalidator Invalidator, publisher Publisher) *Service {
	stripe.Key = cfg.SecretKey
	return &Service{
		log:         log,
		cfg:         cfg,
		repo:        repo,
		invalidator: invalidator,
		publisher:   publisher,
	}
}

// CreateCheckout создает checkout-сессию для выбранного тарифа и
// возвращает адрес для редиректа. Клиент по почте переиспользуется,
// цена тарифа передается в центах.
func (s *Service) CreateCheckout(ctx context.Context, identity *models.Identity, tierID string) (string, error) {
	const op = "payment.CreateCheckout"

	tier, err := s.repo.GetTierByID(ctx, tierID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if tier.Price == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrFreeTierCheckout)
	}

	customerID, err := s.findOrCreateCustomer(identity)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	metadata := map[string]string{
		"user_uid":   identity.UserUID,
		"username":   identity.Username,
		"user_email": identity.Email,
		"tier_id":    tier.ID,
		"tier_name":  tier.Name,
	}

	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(customerID),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("usd"),
				UnitAmount: stripe.Int64(tier.Price),
				Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
					Interval: stripe.String("month"),
				},
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(tier.Name),
				},
			},
		}},
		Metadata: metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if sess.URL == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoRedirectURL)
	}
	return sess.URL, nil
}

// CreatePortal создает сессию портала управления подпиской.
func (s *Service) CreatePortal(_ context.Context, identity *models.Identity) (string, error) {
	const op = "payment.CreatePortal"

	customerID, err := s.findOrCreateCustomer(identity)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	sess, err := bpsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(s.cfg.PortalURL),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if sess.URL == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoRedirectURL)
	}
	return sess.URL, nil
}

// findOrCreateCustomer ищет клиента Stripe по почте, при отсутствии
// создает нового.
func (s *Service) findOrCreateCustomer(identity *models.Identity) (string, error) {
	iter := customer.List(&stripe.CustomerListParams{
		Email: stripe.String(identity.Email),
	})
	for iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", err
	}

	created, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(identity.Email),
		Metadata: map[string]string{
			"user_uid": identity.UserUID,
		},
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
