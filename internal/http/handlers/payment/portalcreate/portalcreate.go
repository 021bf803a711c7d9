// Package portalcreate реализует HTTP-обработчик создания сессии
// биллингового портала Stripe для управления подпиской.
package portalcreate

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

// Service описывает интерфейс создания сессии биллингового портала.
type Service interface {
	CreatePortal(ctx context.Context, identity *models.Identity) (string, error)
}

// Handler обрабатывает HTTP-запросы на создание сессии портала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Биллинговый портал
// @Description Создает сессию портала Stripe для управления подпиской и возвращает URL для перенаправления.
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "URL портала"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /portal [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.portalcreate"

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

	url, err := h.service.CreatePortal(r.Context(), identity)
	if err != nil {
		log.Error("failed to create portal session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create portal session"))
		return
	}

	log.Info("portal session created", slog.String("user_uid", identity.UserUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"redirect_url": url,
	}))
}
