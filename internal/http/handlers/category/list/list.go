// Package list реализует HTTP-обработчик получения списка категорий
// с количеством связанных подписок.
package list

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

// Handler управляет HTTP-запросами на получение списка категорий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения списка категорий
}

// Service описывает интерфейс бизнес-логики получения списка категорий.
type Service interface {
	List(ctx context.Context) ([]*models.CategoryView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список категорий
// @Description Возвращает категории по возрастанию sort_order с количеством подписок в каждой.
// @Tags Categories
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.CategoryView} "Список категорий"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	views, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list categories"))
		return
	}

	log.Info("success to list categories", slog.Int("count", len(views)))
	render.JSON(w, r, response.OKWithData(views))
}
