// Package timersupdate реализует HTTP-обработчик обновления таймеров
// социальных платформ пользователя.
package timersupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/zen-zone/internal/http/middlewarectx"
	"github.com/magabrotheeeer/zen-zone/internal/http/response"
	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// Request — входные данные для обновления таймеров.
type Request struct {
	Timers []TimerEntry `json:"timers" validate:"required,dive"`
}

// TimerEntry — таймер одной платформы.
type TimerEntry struct {
	Name         string `json:"name" validate:"required"`
	LimitMinutes int    `json:"limit_minutes" validate:"gte=0"`
	SpentMinutes int    `json:"spent_minutes" validate:"gte=0"`
}

// Service описывает интерфейс обновления таймеров платформ.
type Service interface {
	UpdatePlatformTimers(ctx context.Context, userUID string, timers []models.PlatformTimer) error
}

// Handler обрабатывает HTTP-запросы на обновление таймеров.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновление таймеров платформ
// @Description Сохраняет таймеры социальных платформ с лимитами и потраченным временем.
// @Tags Wellness
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Таймеры платформ"
// @Success 200 {object} response.Response "Таймеры сохранены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /wellness/platform-timers [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wellness.timersupdate"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	timers := make([]models.PlatformTimer, 0, len(req.Timers))
	for _, t := range req.Timers {
		timers = append(timers, models.PlatformTimer{
			Name:         t.Name,
			LimitMinutes: t.LimitMinutes,
			SpentMinutes: t.SpentMinutes,
		})
	}

	if err := h.service.UpdatePlatformTimers(r.Context(), identity.UserUID, timers); err != nil {
		log.Error("failed to update platform timers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update platform timers"))
		return
	}

	log.Info("platform timers updated",
		slog.String("user_uid", identity.UserUID),
		slog.Int("count", len(timers)))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
