// Package update реализует HTTP-обработчик частичного обновления категории.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/storage/repository"
)

// Handler управляет HTTP-запросами на обновление категорий.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для обновления категорий
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обновления категории.
type Service interface {
	Update(ctx context.Context, id uuid.UUID, req models.DummyCategory) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить категорию
// @Description Частично обновляет категорию: пустые поля запроса не изменяются.
// @Tags Categories
// @Accept  json
// @Produce  json
// @Param id path string true "ID категории (UUID)"
// @Param request body models.DummyCategory true "Изменяемые поля"
// @Success 200 {object} response.Response "Категория обновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Категория не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.update"
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

	var req models.DummyCategory
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	count, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			log.Error("category not found", slog.String("id", id.String()))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("category not found"))
			return
		}
		log.Error("failed to update category", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update category"))
		return
	}
	if count == 0 {
		log.Error("category not found", slog.String("id", id.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("category not found"))
		return
	}

	log.Info("success to update category", slog.String("id", id.String()))
	render.JSON(w, r, response.OK())
}
