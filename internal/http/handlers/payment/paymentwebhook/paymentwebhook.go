// Package paymentwebhook реализует HTTP-обработчик вебхуков Stripe.
//
// Обработчик читает сырое тело запроса и заголовок Stripe-Signature,
// проверка подписи и разбор событий выполняются платежным сервисом.
package paymentwebhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/zen-zone/internal/http/response"
	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
)

// maxBodyBytes ограничивает размер тела вебхука по рекомендации Stripe.
const maxBodyBytes = int64(65536)

// Service описывает интерфейс обработки событий Stripe.
type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

// Handler обрабатывает HTTP-запросы вебхуков Stripe.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Вебхук Stripe
// @Description Принимает события Stripe: завершение оплаты активирует платный тариф, отмена подписки возвращает бесплатный.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Success 200 {object} response.Response "Событие обработано"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или тело запроса"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentwebhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read request body"))
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		log.Error("failed to handle webhook event", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to handle webhook event"))
		return
	}

	log.Info("webhook event handled")
	render.JSON(w, r, response.StatusOKWithData(nil))
}
