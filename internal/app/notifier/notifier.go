// Package notifier собирает сервис уведомлений: потребляет события
// достижений и оплат из RabbitMQ и отправляет письма по SMTP.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/zen-zone/internal/config"
	"github.com/magabrotheeeer/zen-zone/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/zen-zone/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/zen-zone/internal/services/sender"
)

// App потребитель очередей уведомлений.
type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	sender *senderservice.Service
	logger *slog.Logger
}

// New подключается к брокеру, объявляет очереди и готовит SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitURL, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	sender := senderservice.New(logger, transport)

	return &App{
		conn:   conn,
		ch:     ch,
		sender: sender,
		logger: logger,
	}, nil
}

// Run запускает потребителей очередей и блокируется до остановки контекста.
// Тикер мониторинга соединения останавливается при выходе.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.AchievementQueue, a.sender.SendAchievementUnlocked)
	if err != nil {
		a.logger.Error("failed to start achievement consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.PaymentQueue, a.sender.SendPaymentSucceeded)
	if err != nil {
		a.logger.Error("failed to start payment consumer", slog.Any("err", err))
		return err
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.conn.IsClosed() {
				a.logger.Error("broker connection lost")
				return amqp.ErrClosed
			}
		case <-ctx.Done():
			a.logger.Info("notifier service shutting down gracefully")

			if err := a.ch.Close(); err != nil {
				a.logger.Error("failed to close channel", slog.Any("err", err))
			}
			if err := a.conn.Close(); err != nil {
				a.logger.Error("failed to close connection", slog.Any("err", err))
			}
			return nil
		}
	}
}
