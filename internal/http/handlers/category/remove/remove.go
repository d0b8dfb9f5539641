// Package remove реализует HTTP-обработчик удаления категории.
// Подписки удалённой категории не затрагиваются: их ссылка обнуляется.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
)

// Handler управляет HTTP-запросами на удаление категорий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для удаления категорий
}

// Service описывает интерфейс бизнес-логики удаления категории.
type Service interface {
	Remove(ctx context.Context, id uuid.UUID) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить категорию
// @Description Удаляет категорию. Подписки категории остаются без группировки.
// @Tags Categories
// @Produce  json
// @Param id path string true "ID категории (UUID)"
// @Success 200 {object} response.Response "Категория удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Категория не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	count, err := h.service.Remove(r.Context(), id)
	if err != nil {
		log.Error("failed to remove category", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove category"))
		return
	}
	if count == 0 {
		log.Error("category not found", slog.String("id", id.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("category not found"))
		return
	}

	log.Info("success to remove category", slog.String("id", id.String()))
	render.JSON(w, r, response.OK())
}
