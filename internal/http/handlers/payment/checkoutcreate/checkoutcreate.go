// Package checkoutcreate реализует HTTP-обработчик создания платежной
// сессии Stripe Checkout для перехода на платный тариф.
package checkoutcreate

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
	"github.com/magabrotheeeer/zen-zone/internal/services/payment"
	"github.com/magabrotheeeer/zen-zone/internal/storage/repository"
)

// Request — входные данные для создания платежной сессии.
type Request struct {
	TierID string `json:"tier_id" validate:"required,uuid"`
}

// Service описывает интерфейс создания платежной сессии.
type Service interface {
	CreateCheckout(ctx context.Context, identity *models.Identity, tierID string) (string, error)
}

// Handler обрабатывает HTTP-запросы на создание платежной сессии.
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
// @Summary Создание платежной сессии
// @Description Создает сессию Stripe Checkout для оплаты выбранного тарифа и возвращает URL для перенаправления.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Идентификатор тарифа"
// @Success 200 {object} map[string]any "URL платежной сессии"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или бесплатный тариф"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Тариф не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkoutcreate"

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

	url, err := h.service.CreateCheckout(r.Context(), identity, req.TierID)
	switch {
	case errors.Is(err, repository.ErrTierNotFound):
		log.Error("tier not found", slog.String("tier_id", req.TierID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("tier not found"))
		return
	case errors.Is(err, payment.ErrFreeTierCheckout):
		log.Error("checkout for free tier rejected", slog.String("tier_id", req.TierID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("free tier does not require payment"))
		return
	case err != nil:
		log.Error("failed to create checkout session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create checkout session"))
		return
	}

	log.Info("checkout session created",
		slog.String("user_uid", identity.UserUID),
		slog.String("tier_id", req.TierID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"redirect_url": url,
	}))
}
