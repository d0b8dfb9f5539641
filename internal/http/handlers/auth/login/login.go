// Package login реализует HTTP-обработчик для запросов аутентификации.
//
// В нём определяется структура Request для входных данных, выполняется
// декодирование JSON, проверка и валидация полей, а также делегирование
// операции входа сервису аутентификации. При успешной аутентификации
// возвращается JSON с JWT; в случае ошибок формируются соответствующие
// HTTP-ответы.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/subtracker/subtracker/internal/http/response"
	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/services/auth"
)

// Request описывает структуру запроса на вход.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=3"`
}

// Handler управляет HTTP-запросами на аутентификацию.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс сервиса аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
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
// @Summary Вход в систему
// @Description Проверяет логин и пароль, возвращает JWT для дальнейших запросов.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Логин и пароль"
// @Success 200 {object} response.Response "JWT выдан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error("invalid credentials", slog.String("username", req.Username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid username or password"))
			return
		}
		log.Error("failed to login", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not login"))
		return
	}

	log.Info("success to login", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
	}))
}
