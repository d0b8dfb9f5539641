// Package calendar реализует HTTP-обработчик календаря продлений:
// подписки месяца, сгруппированные по дням окончания.
package calendar

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

// Handler управляет HTTP-запросами календаря продлений.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис расчёта статистики
}

// Service описывает интерфейс построения календаря продлений.
type Service interface {
	Calendar(ctx context.Context, year, month int) ([]*models.CalendarDay, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Календарь продлений
// @Description Возвращает по одному элементу на каждый день месяца с подписками, истекающими в этот день.
// @Tags Stats
// @Produce  json
// @Param year query int true "Год"
// @Param month query int true "Месяц (1..12)"
// @Success 200 {object} response.Response{data=[]models.CalendarDay} "Календарь месяца"
// @Failure 400 {object} response.ErrorResponse "Некорректные year или month"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /stats/calendar [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.calendar"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		log.Error("invalid year parameter", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid year parameter"))
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		log.Error("invalid month parameter", slog.String("month", r.URL.Query().Get("month")))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid month parameter"))
		return
	}

	days, err := h.service.Calendar(r.Context(), year, month)
	if err != nil {
		log.Error("failed to build calendar", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build calendar"))
		return
	}

	log.Info("success to build calendar", slog.Int("year", year), slog.Int("month", month))
	render.JSON(w, r, response.OKWithData(days))
}
