// Package testsend реализует HTTP-обработчик пробной отправки уведомления:
// позволяет проверить сохранённые учётные данные, не дожидаясь
// срабатывания ежедневного расписания.
package testsend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
)

// Request описывает структуру запроса пробной отправки.
// Все поля необязательны: пустые значения берутся из настроек.
type Request struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}

// Handler управляет HTTP-запросами пробной отправки уведомлений.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис отправки уведомлений
}

// Service описывает интерфейс отправки одного уведомления.
type Service interface {
	Send(ctx context.Context, message, token, chatID string) (bool, string)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Пробная отправка уведомления
// @Description Отправляет тестовое сообщение через настроенный канал. Пустые token и chat_id берутся из настроек. Результат отправки возвращается в теле ответа, HTTP-статус всегда 200.
// @Tags Settings
// @Accept  json
// @Produce  json
// @Param request body Request false "Сообщение и переопределение учётных данных"
// @Success 200 {object} response.Response "Результат отправки"
// @Security BearerAuth
// @Router /settings/test-send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.testsend"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if req.Message == "" {
		req.Message = "SubTracker: test notification."
	}

	ok, sendErr := h.service.Send(r.Context(), req.Message, req.Token, req.ChatID)
	log.Info("test send finished", slog.Bool("success", ok))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"success": ok,
		"error":   sendErr,
	}))
}
