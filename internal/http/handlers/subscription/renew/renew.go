// Package renew реализует HTTP-обработчик продления подписки:
// дата окончания сдвигается вперёд согласно периоду оплаты.
package renew

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/storage/repository"
)

// Handler управляет HTTP-запросами на продление подписок.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для продления подписок
}

// Service описывает интерфейс бизнес-логики продления подписки.
type Service interface {
	Renew(ctx context.Context, id uuid.UUID) (*models.SubscriptionView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Продлить подписку
// @Description Сдвигает дату окончания на один период оплаты вперёд и возвращает обновлённую подписку.
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "ID подписки (UUID)"
// @Success 200 {object} response.Response{data=models.SubscriptionView} "Продлённая подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions/{id}/renew [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.renew"
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

	view, err := h.service.Renew(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			log.Error("subscription not found", slog.String("id", id.String()))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
			return
		}
		log.Error("failed to renew subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not renew subscription"))
		return
	}

	log.Info("success to renew subscription",
		slog.String("id", id.String()),
		slog.String("new_expire_date", view.ExpireDate))
	render.JSON(w, r, response.OKWithData(view))
}
