// Package get реализует HTTP-обработчик чтения настроек: возвращается
// сводка всех распознаваемых ключей с применёнными значениями по умолчанию.
package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/models"
)

// Handler управляет HTTP-запросами на чтение настроек.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для работы с настройками
}

// Service описывает интерфейс бизнес-логики чтения настроек.
type Service interface {
	View(ctx context.Context) *models.SettingsView
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить настройки
// @Description Возвращает действующие настройки со значениями по умолчанию для отсутствующих ключей.
// @Tags Settings
// @Produce  json
// @Success 200 {object} response.Response{data=models.SettingsView} "Настройки"
// @Security BearerAuth
// @Router /settings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	view := h.service.View(r.Context())
	log.Info("success to read settings")
	render.JSON(w, r, response.OKWithData(view))
}
