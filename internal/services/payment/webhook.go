package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"

	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/metrics"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// HandleWebhook проверяет подпись и обрабатывает событие Stripe.
// Неизвестные события пропускаются без ошибки: ошибка возвращается
// только при неверной подписи или сбое хранилища.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	const op = "payment.HandleWebhook"

	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.WebhookSecret)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, event)
	default:
		s.log.Info("skipping unhandled stripe event",
			slog.String("type", string(event.Type)))
		return nil
	}
}

// handleCheckoutCompleted активирует оплаченную подписку. Предыдущая
// активная подписка деактивируется в той же транзакции хранилища.
func (s *Service) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	const op = "payment.handleCheckoutCompleted"

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	userUID := sess.Metadata["user_uid"]
	tierID := sess.Metadata["tier_id"]
	if userUID == "" || tierID == "" {
		s.log.Error("checkout session is missing metadata",
			slog.String("session_id", sess.ID))
		return nil
	}

	periodStart := time.Now().UTC()
	periodEnd := periodStart.AddDate(0, 1, 0)
	if err := s.repo.ActivatePaidSubscription(ctx, userUID, tierID,
		periodStart, periodEnd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.invalidator.Invalidate(userUID); err != nil {
		s.log.Warn("failed to invalidate entitlement cache", sl.Err(err))
	}

	// Адрес и имя берутся из базы: почта могла смениться между
	// оформлением checkout-сессии и приходом вебхука.
	notification := models.PaymentEvent{
		Email:    sess.Metadata["user_email"],
		Username: sess.Metadata["username"],
		TierName: sess.Metadata["tier_name"],
	}
	if user, err := s.repo.GetUser(ctx, userUID); err != nil {
		s.log.Warn("failed to load user for payment notification", sl.Err(err))
	} else {
		notification.Email = user.Email
		notification.Username = user.Username
	}
	if err := s.publisher.Publish("payment", notification); err != nil {
		s.log.Error("failed to publish payment notification", sl.Err(err))
	}

	metrics.PaymentsSucceeded.Inc()
	s.log.Info("activated paid subscription",
		slog.String("user_uid", userUID),
		slog.String("tier_id", tierID))
	return nil
}

// handleSubscriptionDeleted деактивирует подписку пользователя после
// отмены на стороне Stripe.
func (s *Service) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	const op = "payment.handleSubscriptionDeleted"

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	userUID := sub.Metadata["user_uid"]
	if userUID == "" {
		s.log.Error("stripe subscription is missing user metadata",
			slog.String("subscription_id", sub.ID))
		return nil
	}

	affected, err := s.repo.DeactivateSubscription(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.invalidator.Invalidate(userUID); err != nil {
		s.log.Warn("failed to invalidate entitlement cache", sl.Err(err))
	}

	s.log.Info("deactivated subscription",
		slog.String("user_uid", userUID),
		slog.Int("rows", affected))
	return nil
}
