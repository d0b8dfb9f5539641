// Package costs реализует HTTP-обработчик помесячного тренда расходов.
package costs

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

// Пределы параметра months. Значение вне диапазона заменяется значением
// по умолчанию, а не отклоняется.
const (
	defaultMonths = 6
	maxMonths     = 24
)

// Handler управляет HTTP-запросами тренда расходов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис расчёта статистики
}

// Service описывает интерфейс расчёта тренда расходов.
type Service interface {
	Costs(ctx context.Context, months int) ([]*models.ExpenseTrendPoint, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Тренд расходов
// @Description Возвращает помесячные расходы за последние months месяцев, раздельно по валютам.
// @Tags Stats
// @Produce  json
// @Param months query int false "Глубина в месяцах (1..24, по умолчанию 6)"
// @Success 200 {object} response.Response{data=[]models.ExpenseTrendPoint} "Тренд расходов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /stats/costs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.costs"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	months := defaultMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= maxMonths {
			months = parsed
		}
	}

	points, err := h.service.Costs(r.Context(), months)
	if err != nil {
		log.Error("failed to build expense trend", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build expense trend"))
		return
	}

	log.Info("success to build expense trend", slog.Int("months", months))
	render.JSON(w, r, response.OKWithData(points))
}
