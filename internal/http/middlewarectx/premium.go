package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/zen-zone/internal/http/response"
	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// EntitlementResolver разрешает права доступа пользователя.
type EntitlementResolver interface {
	Resolve(ctx context.Context, userUID string) (*models.Entitlement, error)
}

// PremiumMiddleware создает middleware для проверки премиум-доступа.
// Доступ открывается только при активной подписке на платный тариф.
func PremiumMiddleware(log *slog.Logger, resolver EntitlementResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.PremiumMiddleware"

			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			entitlement, err := resolver.Resolve(r.Context(), identity.UserUID)
			if err != nil {
				log.Error("failed to resolve entitlement", slog.String("op", op), sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if !entitlement.IsSubscribed {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("premium subscription required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
