// Package zenzone предоставляет маршруты основного приложения.
package zenzone

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	achievementlist "github.com/magabrotheeeer/zen-zone/internal/http/handlers/achievement/list"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/payment/checkoutcreate"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/payment/portalcreate"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/subscription/read"
	tierlist "github.com/magabrotheeeer/zen-zone/internal/http/handlers/tier/list"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/wellness/insights"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/wellness/moodcheckin"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/wellness/settingsread"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/wellness/settingsupdate"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/wellness/timersread"
	"github.com/magabrotheeeer/zen-zone/internal/http/handlers/wellness/timersupdate"
	"github.com/magabrotheeeer/zen-zone/internal/http/middlewarectx"
	achievementservice "github.com/magabrotheeeer/zen-zone/internal/services/achievement"
	authservice "github.com/magabrotheeeer/zen-zone/internal/services/auth"
	entitlementservice "github.com/magabrotheeeer/zen-zone/internal/services/entitlement"
	paymentservice "github.com/magabrotheeeer/zen-zone/internal/services/payment"
	wellnessservice "github.com/magabrotheeeer/zen-zone/internal/services/wellness"
	"github.com/magabrotheeeer/zen-zone/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authSvc *authservice.Service,
	entitlementSvc *entitlementservice.Service,
	achievementSvc *achievementservice.Service,
	wellnessSvc *wellnessservice.Service,
	paymentSvc *paymentservice.Service,
	db *repository.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authSvc).ServeHTTP)
		r.Post("/login", login.New(logger, authSvc).ServeHTTP)
		r.Get("/tiers", tierlist.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authSvc, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/logout", logout.New(logger, authSvc, entitlementSvc).ServeHTTP)
			r.Get("/subscription", read.New(logger, entitlementSvc).ServeHTTP)
			r.Post("/checkout", checkoutcreate.New(logger, paymentSvc).ServeHTTP)
			r.Post("/portal", portalcreate.New(logger, paymentSvc).ServeHTTP)
			r.Get("/achievements", achievementlist.New(logger, achievementSvc).ServeHTTP)
			r.Post("/wellness/checkin", moodcheckin.New(logger, wellnessSvc).ServeHTTP)
			r.Get("/wellness/settings", settingsread.New(logger, wellnessSvc).ServeHTTP)
			r.Put("/wellness/settings", settingsupdate.New(logger, wellnessSvc).ServeHTTP)
			r.Get("/wellness/platform-timers", timersread.New(logger, wellnessSvc).ServeHTTP)
			r.Put("/wellness/platform-timers", timersupdate.New(logger, wellnessSvc).ServeHTTP)

			// Премиум-раздел
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PremiumMiddleware(logger, entitlementSvc))
				r.Get("/wellness/insights", insights.New(logger, wellnessSvc).ServeHTTP)
			})
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/payments/webhook", paymentwebhook.New(logger, paymentSvc).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
