// Package moodcheckin реализует HTTP-обработчик чекина настроения после
// сессии осознанности. Обработчик возвращает начисленные очки и, если
// это первый чекин, полученное достижение.
package moodcheckin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/zen-zone/internal/http/middlewarectx"
	"github.com/magabrotheeeer/zen-zone/internal/http/response"
	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/models"
	"github.com/magabrotheeeer/zen-zone/internal/services/wellness"
)

// Request — входные данные чекина настроения.
type Request struct {
	MoodBefore string `json:"mood_before" validate:"required,oneof=terrible bad neutral good great"`
	MoodAfter  string `json:"mood_after" validate:"required,oneof=terrible bad neutral good great"`
}

// Service описывает интерфейс обработки чекина.
type Service interface {
	MoodCheckin(ctx context.Context, identity *models.Identity,
		before, after models.Mood) (*wellness.CheckinResult, error)
}

// Handler обрабатывает HTTP-запросы чекина настроения.
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
// @Summary Чекин настроения
// @Description Принимает настроение до и после сессии, начисляет очки и выдает достижение за первый чекин.
// @Tags Wellness
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Настроение до и после сессии"
// @Success 200 {object} map[string]any "Очки и достижение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или значение настроения"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /wellness/checkin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wellness.moodcheckin"

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

	result, err := h.service.MoodCheckin(r.Context(), identity,
		models.Mood(req.MoodBefore), models.Mood(req.MoodAfter))
	switch {
	case errors.Is(err, wellness.ErrInvalidMood):
		log.Error("invalid mood value")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid mood value"))
		return
	case err != nil:
		log.Error("failed to process checkin", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process checkin"))
		return
	}

	log.Info("mood checkin processed",
		slog.String("user_uid", identity.UserUID),
		slog.Int("points", result.Points))
	render.JSON(w, r, response.StatusOKWithData(result))
}
