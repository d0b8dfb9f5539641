// Package me реализует HTTP-обработчик получения текущего пользователя.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subtracker/subtracker/internal/http/middlewarectx"
	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/models"
)

// Handler управляет HTTP-запросами текущего пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис аутентификации
}

// Service описывает интерфейс чтения учётной записи.
type Service interface {
	Me(ctx context.Context, username string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает учётную запись пользователя из токена.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response{data=models.UserView} "Учётная запись"
// @Failure 401 {object} response.ErrorResponse "Нет пользователя в контексте"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.Me(r.Context(), username)
	if err != nil {
		log.Error("failed to read user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user"))
		return
	}

	render.JSON(w, r, response.OKWithData(models.UserView{
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}))
}
