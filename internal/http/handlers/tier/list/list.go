// Package list реализует HTTP-обработчик получения списка тарифов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/zen-zone/internal/http/response"
	"github.com/magabrotheeeer/zen-zone/internal/lib/sl"
	"github.com/magabrotheeeer/zen-zone/internal/models"
)

// Service описывает интерфейс получения тарифов.
type Service interface {
	ListTiers(ctx context.Context) ([]*models.Tier, error)
}

// Handler обрабатывает HTTP-запросы на список тарифов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список тарифов
// @Description Возвращает все доступные тарифы, отсортированные по цене.
// @Tags Tiers
// @Produce  json
// @Success 200 {object} map[string]any "Список тарифов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /tiers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tier.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tiers, err := h.service.ListTiers(r.Context())
	if err != nil {
		log.Error("failed to list tiers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list tiers"))
		return
	}

	log.Info("tiers listed", slog.Int("count", len(tiers)))
	render.JSON(w, r, response.StatusOKWithData(tiers))
}
