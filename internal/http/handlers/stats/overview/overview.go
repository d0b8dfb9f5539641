// Package overview реализует HTTP-обработчик сводной статистики для дашборда.
package overview

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/models"
)

// Handler управляет HTTP-запросами сводной статистики.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис расчёта статистики
}

// Service описывает интерфейс расчёта сводной статистики.
type Service interface {
	Overview(ctx context.Context) (*models.OverviewStats, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводная статистика
// @Description Возвращает итоги по подпискам: количество, число активных, истекающие в этом месяце и месячные расходы в CNY и USD.
// @Tags Stats
// @Produce  json
// @Success 200 {object} response.Response{data=models.OverviewStats} "Сводка"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /stats/overview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.overview"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.Overview(r.Context())
	if err != nil {
		log.Error("failed to build overview", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build overview"))
		return
	}

	log.Info("success to build overview", slog.Int("total", stats.TotalServices))
	render.JSON(w, r, response.OKWithData(stats))
}
