// Package timersread реализует HTTP-обработчик чтения таймеров
// социальных платформ пользователя.
package timersread

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

// Service описывает интерфейс чтения таймеров платформ.
type Service interface {
	GetPlatformTimers(ctx context.Context, userUID string) ([]models.PlatformTimer, error)
}

// Handler обрабатывает HTTP-запросы на чтение таймеров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Таймеры платформ
// @Description Возвращает таймеры социальных платформ пользователя с лимитами и потраченным временем.
// @Tags Wellness
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список таймеров"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /wellness/platform-timers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wellness.timersread"

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

	timers, err := h.service.GetPlatformTimers(r.Context(), identity.UserUID)
	if err != nil {
		log.Error("failed to read platform timers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read platform timers"))
		return
	}

	log.Info("platform timers read",
		slog.String("user_uid", identity.UserUID),
		slog.Int("count", len(timers)))
	render.JSON(w, r, response.StatusOKWithData(timers))
}
