// Package list реализует HTTP-обработчик получения списка достижений
// пользователя с отметками о полученных.
package list

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

// Service описывает интерфейс получения достижений.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Achievement, error)
}

// Handler обрабатывает HTTP-запросы на список достижений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список достижений
// @Description Возвращает все достижения с отметками, какие из них получены текущим пользователем.
// @Tags Achievements
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список достижений"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /achievements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.achievement.list"

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

	achievements, err := h.service.List(r.Context(), identity.UserUID)
	if err != nil {
		log.Error("failed to list achievements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list achievements"))
		return
	}

	log.Info("achievements listed",
		slog.String("user_uid", identity.UserUID),
		slog.Int("count", len(achievements)))
	render.JSON(w, r, response.StatusOKWithData(achievements))
}
