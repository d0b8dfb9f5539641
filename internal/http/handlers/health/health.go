// Package health реализует HTTP-обработчик проверки работоспособности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
)

// Storage описывает проверку доступности хранилища.
type Storage interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler отвечает на запросы проверки работоспособности.
type Handler struct {
	log     *slog.Logger
	storage Storage
}

// New создает новый Handler.
func New(log *slog.Logger, storage Storage) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP godoc
// @Summary Проверка работоспособности
// @Description Возвращает статус сервиса и доступность базы данных.
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Сервис работает"
// @Failure 503 {object} response.ErrorResponse "База данных недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.storage.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
