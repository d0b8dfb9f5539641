// Package list реализует HTTP-обработчик чтения журнала напоминаний.
package list

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

// Пределы параметра limit. Значение вне диапазона заменяется значением
// по умолчанию, а не отклоняется.
const (
	defaultLimit = 50
	maxLimit     = 200
)

// Handler управляет HTTP-запросами на чтение журнала напоминаний.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	storage Storage      // Хранилище журнала напоминаний
}

// Storage описывает интерфейс чтения журнала напоминаний.
type Storage interface {
	ListNotificationLogs(ctx context.Context, limit int) ([]*models.NotificationLog, error)
}

// New создает новый Handler с переданными логгером и хранилищем.
func New(log *slog.Logger, storage Storage) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP godoc
// @Summary Журнал напоминаний
// @Description Возвращает последние записи журнала напоминаний, от новых к старым.
// @Tags Notifications
// @Produce  json
// @Param limit query int false "Количество записей (1..200, по умолчанию 50)"
// @Success 200 {object} response.Response{data=[]models.NotificationLogView} "Записи журнала"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= maxLimit {
			limit = parsed
		}
	}

	logs, err := h.storage.ListNotificationLogs(r.Context(), limit)
	if err != nil {
		log.Error("failed to list notification logs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list notifications"))
		return
	}

	views := make([]*models.NotificationLogView, 0, len(logs))
	for _, entry := range logs {
		views = append(views, &models.NotificationLogView{
			ID:             entry.ID,
			SubscriptionID: entry.SubscriptionID,
			NotifyType:     entry.NotifyType,
			Message:        entry.Message,
			SentAt:         entry.SentAt,
			Success:        entry.Success,
			ErrorMessage:   entry.ErrorMessage,
		})
	}

	log.Info("success to list notification logs", slog.Int("count", len(views)))
	render.JSON(w, r, response.OKWithData(views))
}
