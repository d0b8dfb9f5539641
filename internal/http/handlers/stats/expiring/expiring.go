// Package expiring реализует HTTP-обработчик списка подписок,
// истекающих в ближайшие дни.
package expiring

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/models"
)

// Пределы параметра days. Значение вне диапазона заменяется значением
// по умолчанию, а не отклоняется.
const (
	defaultDays = 7
	maxDays     = 30
)

// Handler управляет HTTP-запросами списка скоро истекающих подписок.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис расчёта статистики
}

// Service описывает интерфейс выборки скоро истекающих подписок.
type Service interface {
	Expiring(ctx context.Context, days int) ([]*models.ExpiringItem, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Скоро истекающие подписки
// @Description Возвращает подписки, истекающие от сегодняшнего дня до сегодня+days, по возрастанию даты окончания.
// @Tags Stats
// @Produce  json
// @Param days query int false "Горизонт в днях (1..30, по умолчанию 7)"
// @Success 200 {object} response.Response{data=[]models.ExpiringItem} "Список подписок"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /stats/expiring [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.expiring"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	days := defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= maxDays {
			days = parsed
		}
	}

	items, err := h.service.Expiring(r.Context(), days)
	if err != nil {
		log.Error("failed to list expiring subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list expiring subscriptions"))
		return
	}

	log.Info("success to list expiring subscriptions", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}
