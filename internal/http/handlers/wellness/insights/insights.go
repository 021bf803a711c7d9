// Package insights реализует HTTP-обработчик сводки цифрового
// благополучия. Доступ только для пользователей с платной подпиской.
package insights

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/zen-zone/internal/http/middlewarectx"
	"github.com/magabrotheeeer/zen-zone/internal/http/response"
	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/services/wellness"
)

// Service описывает интерфейс получения сводки.
type Service interface {
	GetInsights(ctx context.Context, userUID string) (*wellness.Insights, error)
}

// Handler обрабатывает HTTP-запросы на сводку.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сводка благополучия
// @Description Возвращает сводку по таймерам и лимитам. Требует платную подписку.
// @Tags Wellness
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Сводка благополучия"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется платная подписка"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /wellness/insights [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wellness.insights"

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

	insights, err := h.service.GetInsights(r.Context(), identity.UserUID)
	if err != nil {
		log.Error("failed to build insights", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build insights"))
		return
	}

	log.Info("insights built", slog.String("user_uid", identity.UserUID))
	render.JSON(w, r, response.StatusOKWithData(insights))
}
