// Package subtracker предоставляет маршруты приложения.
package subtracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/subtracker/subtracker/internal/http/handlers/auth/changepassword"
	"github.com/subtracker/subtracker/internal/http/handlers/auth/login"
	"github.com/subtracker/subtracker/internal/http/handlers/auth/me"
	categorycreate "github.com/subtracker/subtracker/internal/http/handlers/category/create"
	categorylist "github.com/subtracker/subtracker/internal/http/handlers/category/list"
	categoryremove "github.com/subtracker/subtracker/internal/http/handlers/category/remove"
	categoryupdate "github.com/subtracker/subtracker/internal/http/handlers/category/update"
	"github.com/subtracker/subtracker/internal/http/handlers/health"
	notificationlist "github.com/subtracker/subtracker/internal/http/handlers/notification/list"
	settingsget "github.com/subtracker/subtracker/internal/http/handlers/settings/get"
	"github.com/subtracker/subtracker/internal/http/handlers/settings/testsend"
	settingsupdate "github.com/subtracker/subtracker/internal/http/handlers/settings/update"
	"github.com/subtracker/subtracker/internal/http/handlers/stats/calendar"
	"github.com/subtracker/subtracker/internal/http/handlers/stats/costs"
	"github.com/subtracker/subtracker/internal/http/handlers/stats/expiring"
	"github.com/subtracker/subtracker/internal/http/handlers/stats/overview"
	"github.com/subtracker/subtracker/internal/http/handlers/subscription/create"
	"github.com/subtracker/subtracker/internal/http/handlers/subscription/list"
	"github.com/subtracker/subtracker/internal/http/handlers/subscription/read"
	"github.com/subtracker/subtracker/internal/http/handlers/subscription/remove"
	"github.com/subtracker/subtracker/internal/http/handlers/subscription/renew"
	"github.com/subtracker/subtracker/internal/http/handlers/subscription/update"
	"github.com/subtracker/subtracker/internal/http/middlewarectx"
	jwtlib "github.com/subtracker/subtracker/internal/lib/jwt"
	authservice "github.com/subtracker/subtracker/internal/services/auth"
	categoryservice "github.com/subtracker/subtracker/internal/services/category"
	notifierservice "github.com/subtracker/subtracker/internal/services/notifier"
	settingsservice "github.com/subtracker/subtracker/internal/services/settings"
	statsservice "github.com/subtracker/subtracker/internal/services/stats"
	subservice "github.com/subtracker/subtracker/internal/services/subscription"
	"github.com/subtracker/subtracker/internal/storage/repository"
)

// Services — зависимости HTTP-слоя, собранные при инициализации приложения.
type Services struct {
	Subscription *subservice.Service
	Category     *categoryservice.Service
	Settings     *settingsservice.Service
	Auth         *authservice.Service
	Stats        *statsservice.Service
	Notifier     *notifierservice.Service
	Storage      *repository.Storage
	JWTMaker     jwtlib.Maker
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, s.Storage).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/change-password", changepassword.New(logger, s.Auth).ServeHTTP)
			r.Get("/auth/me", me.New(logger, s.Auth).ServeHTTP)

			r.Post("/subscriptions", create.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions", list.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, s.Subscription).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, s.Subscription).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, s.Subscription).ServeHTTP)
			r.Post("/subscriptions/{id}/renew", renew.New(logger, s.Subscription).ServeHTTP)

			r.Post("/categories", categorycreate.New(logger, s.Category).ServeHTTP)
			r.Get("/categories", categorylist.New(logger, s.Category).ServeHTTP)
			r.Put("/categories/{id}", categoryupdate.New(logger, s.Category).ServeHTTP)
			r.Delete("/categories/{id}", categoryremove.New(logger, s.Category).ServeHTTP)

			r.Get("/settings", settingsget.New(logger, s.Settings).ServeHTTP)
			r.Put("/settings", settingsupdate.New(logger, s.Settings).ServeHTTP)
			r.Post("/settings/test-send", testsend.New(logger, s.Notifier).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, s.Storage).ServeHTTP)

			r.Get("/stats/overview", overview.New(logger, s.Stats).ServeHTTP)
			r.Get("/stats/expiring", expiring.New(logger, s.Stats).ServeHTTP)
			r.Get("/stats/calendar", calendar.New(logger, s.Stats).ServeHTTP)
			r.Get("/stats/costs", costs.New(logger, s.Stats).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
