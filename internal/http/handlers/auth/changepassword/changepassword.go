// Package changepassword реализует HTTP-обработчик смены пароля
// текущего пользователя.
package changepassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/subtracker/subtracker/internal/http/middlewarectx"
	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/services/auth"
)

// Request описывает структуру запроса на смену пароля.
type Request struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// Handler управляет HTTP-запросами на смену пароля.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс сервиса смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
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
// @Summary Сменить пароль
// @Description Меняет пароль текущего пользователя после проверки старого.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Старый и новый пароль"
// @Success 200 {object} response.Response "Пароль изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Старый пароль не подошёл"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /auth/change-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"
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

	var req Request
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

	if err := h.service.ChangePassword(r.Context(), username, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error("old password mismatch", slog.String("username", username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid old password"))
			return
		}
		log.Error("failed to change password", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not change password"))
		return
	}

	log.Info("success to change password", slog.String("username", username))
	render.JSON(w, r, response.OK())
}
