// Package read реализует HTTP-обработчик чтения текущей подписки
// пользователя. Обработчик возвращает разрешенные права доступа,
// вычисленные по активной подписке.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/zen-zone/internal/http/middlewarectx"
	"github.com/magabrotheeeer/zen-zone/internal/http/response"
	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// Service описывает интерфейс вычисления прав доступа.
type Service interface {
	Resolve(ctx context.Context, userUID string) (*models.Entitlement, error)
}

// Handler обрабатывает HTTP-запросы на чтение подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущая подписка
// @Description Возвращает права доступа текущего пользователя по его активной подписке.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Права доступа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		log.Error("identity missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	entitlement, err := h.service.Resolve(r.Context(), identity.UserUID)
	if err != nil {
		log.Error("failed to resolve entitlement", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read subscription"))
		return
	}

	data := map[string]any{
		"is_subscribed": entitlement.IsSubscribed,
	}
	if sub := entitlement.Subscription; sub != nil {
		data["tier_name"] = sub.Tier.Name
		data["price"] = sub.Tier.Price
		data["active"] = sub.Active
		data["current_period_end"] = sub.CurrentPeriodEnd
		data["features"] = sub.Tier.Features
	}

	log.Info("entitlement resolved", slog.String("user_uid", identity.UserUID))
	render.JSON(w, r, response.StatusOKWithData(data))
}
