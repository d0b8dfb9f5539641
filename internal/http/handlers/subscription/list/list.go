// Package list реализует HTTP-обработчик получения списка подписок
// с фильтрами по категории и вычисленному статусу.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/models"
)

// Handler управляет HTTP-запросами на получение списка подписок.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения списка подписок
}

// Service описывает интерфейс бизнес-логики получения списка подписок.
type Service interface {
	List(ctx context.Context, categoryID *uuid.UUID, statusFilter string) ([]*models.SubscriptionView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

var knownStatuses = map[string]struct{}{
	models.StatusExpired:      {},
	models.StatusExpiring:     {},
	models.StatusExpiringSoon: {},
	models.StatusActive:       {},
}

// ServeHTTP godoc
// @Summary Список подписок
// @Description Возвращает подписки, упорядоченные по дате окончания. Поддерживает фильтры category_id и status.
// @Tags Subscriptions
// @Produce  json
// @Param category_id query string false "Фильтр по категории (UUID)"
// @Param status query string false "Фильтр по статусу" Enums(expired, expiring, expiring-soon, active)
// @Success 200 {object} response.Response{data=[]models.SubscriptionView} "Список подписок"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры запроса"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Error("failed to decode category_id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid category_id"))
			return
		}
		categoryID = &id
	}

	status := r.URL.Query().Get("status")
	if status != "" {
		if _, ok := knownStatuses[status]; !ok {
			log.Error("unknown status filter", slog.String("status", status))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid status"))
			return
		}
	}

	views, err := h.service.List(r.Context(), categoryID, status)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	log.Info("success to list subscriptions", slog.Int("count", len(views)))
	render.JSON(w, r, response.OKWithData(views))
}
