// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/zen-zone/internal/http/middlewarectx"
	"github.com/magabrotheeeer/zen-zone/internal/http/response"
)

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	SignOut(ctx context.Context)
}

// Invalidator сбрасывает закэшированные права доступа.
type Invalidator interface {
	Invalidate(userUID string) error
}

// Handler обрабатывает HTTP-запросы на выход.
type Handler struct {
	log         *slog.Logger
	auth        Service
	invalidator Invalidator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, invalidator Invalidator) *Handler {
	return &Handler{log: log, auth: auth, invalidator: invalidator}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Завершает сессию текущего пользователя.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Сессия завершена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

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

	h.auth.SignOut(r.Context())

	if err := h.invalidator.Invalidate(identity.UserUID); err != nil {
		log.Warn("failed to invalidate entitlement cache", slog.Any("err", err))
	}

	log.Info("user signed out", slog.String("username", identity.Username))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
