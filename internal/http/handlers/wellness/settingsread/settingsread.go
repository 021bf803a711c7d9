// Package settingsread реализует HTTP-обработчик чтения настроек
// таймера прокрутки пользователя.
package settingsread

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

// Service описывает интерфейс чтения настроек.
type Service interface {
	GetSettings(ctx context.Context, userUID string) (*models.UserSettings, error)
}

// Handler обрабатывает HTTP-запросы на чтение настроек.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Настройки таймера
// @Description Возвращает настройки таймера прокрутки пользователя, по умолчанию 900 секунд.
// @Tags Wellness
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Настройки пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /wellness/settings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wellness.settingsread"

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

	settings, err := h.service.GetSettings(r.Context(), identity.UserUID)
	if err != nil {
		log.Error("failed to read settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read settings"))
		return
	}

	log.Info("settings read", slog.String("user_uid", identity.UserUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"timer_limit": settings.TimerLimit,
	}))
}
