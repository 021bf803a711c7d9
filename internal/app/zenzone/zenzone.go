// Package zenzone собирает HTTP-приложение Zen Zone: хранилище, кэш,
// брокер уведомлений, сервисы и маршруты.
package zenzone

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/zen-zone/internal/authevent"
	"github.com/magabrotheeeer/zen-zone/internal/cache"
	"github.com/magabrotheeeer/zen-zone/internal/config"
	"github.com/magabrotheeeer/zen-zone/internal/lib/jwt"
	"github.com/magabrotheeeer/zen-zone/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/zen-zone/internal/migrations"
	"github.com/magabrotheeeer/zen-zone/internal/models"
	achievementservice "github.com/magabrotheeeer/zen-zone/internal/services/achievement"
	authservice "github.com/magabrotheeeer/zen-zone/internal/services/auth"
	entitlementservice "github.com/magabrotheeeer/zen-zone/internal/services/entitlement"
	paymentservice "github.com/magabrotheeeer/zen-zone/internal/services/payment"
	wellnessservice "github.com/magabrotheeeer/zen-zone/internal/services/wellness"
	"github.com/magabrotheeeer/zen-zone/internal/session"
	"github.com/magabrotheeeer/zen-zone/internal/storage/repository"
)

// App объединяет HTTP-сервер и ресурсы, требующие освобождения при остановке.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	session *session.Store
}

// New собирает приложение: подключает базу, накатывает миграции,
// инициализирует кэш, брокер и сервисы, регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitURL, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	broker := authevent.NewBroker()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authSvc := authservice.New(db, jwtMaker, broker)
	entitlementSvc := entitlementservice.New(logger, db, cacheRedis)
	achievementSvc := achievementservice.New(logger, db, publisher)
	wellnessSvc := wellnessservice.New(logger, db, achievementSvc)
	paymentSvc := paymentservice.New(logger, cfg.Stripe, db, entitlementSvc, publisher)

	// Серверное состояние сессии: начальная проба пустая, личность
	// появляется только через события входа.
	sessionStore := session.NewStore(ctx, logger,
		session.ProberFunc(func(context.Context) (*models.Identity, error) {
			return nil, nil
		}),
		entitlementSvc, broker)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authSvc, entitlementSvc, achievementSvc,
		wellnessSvc, paymentSvc, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		db:      db,
		session: sessionStore,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до остановки контекста
// или фатальной ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	a.session.Close()
	a.db.DB.Close()
	return err
}
