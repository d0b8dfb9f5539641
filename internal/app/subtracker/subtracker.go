// Package subtracker собирает приложение: хранилище, миграции, кеш,
// сервисы, планировщик напоминаний и HTTP-сервер.
package subtracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/subtracker/subtracker/internal/cache"
	"github.com/subtracker/subtracker/internal/config"
	jwtlib "github.com/subtracker/subtracker/internal/lib/jwt"
	"github.com/subtracker/subtracker/internal/lib/telegram"
	"github.com/subtracker/subtracker/internal/migrations"
	authservice "github.com/subtracker/subtracker/internal/services/auth"
	categoryservice "github.com/subtracker/subtracker/internal/services/category"
	notifierservice "github.com/subtracker/subtracker/internal/services/notifier"
	reminderservice "github.com/subtracker/subtracker/internal/services/reminder"
	schedulerservice "github.com/subtracker/subtracker/internal/services/scheduler"
	settingsservice "github.com/subtracker/subtracker/internal/services/settings"
	statsservice "github.com/subtracker/subtracker/internal/services/stats"
	subservice "github.com/subtracker/subtracker/internal/services/subscription"
	"github.com/subtracker/subtracker/internal/storage/repository"
)

// App — собранное приложение SubTracker: один процесс обслуживает
// HTTP API и ежедневную рассылку напоминаний.
type App struct {
	server    *http.Server
	scheduler *schedulerservice.Scheduler
	logger    *slog.Logger
	db        *repository.Storage
}

// New создает приложение: подключает хранилище, применяет миграции,
// инициализирует кеш и сервисы, регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	settingsService := settingsservice.NewService(db, logger)
	subscriptionService := subservice.NewService(db, cacheRedis, settingsService, logger)
	categoryService := categoryservice.NewService(db, logger)
	authService := authservice.NewService(db, jwtMaker, logger)
	statsService := statsservice.NewService(db, settingsService, logger)

	telegramClient := telegram.NewClient(cfg.TelegramAPIURL)
	notifierService := notifierservice.NewService(telegramClient, settingsService, logger)
	reminderService := reminderservice.NewService(db, db, settingsService, notifierService, logger)
	scheduler := schedulerservice.New(reminderService, settingsService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Subscription: subscriptionService,
		Category:     categoryService,
		Settings:     settingsService,
		Auth:         authService,
		Stats:        statsService,
		Notifier:     notifierService,
		Storage:      db,
		JWTMaker:     jwtMaker,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		scheduler: scheduler,
		logger:    logger,
		db:        db,
	}, nil
}

// Run запускает планировщик и HTTP-сервер и блокируется до отмены
// контекста либо ошибки сервера. При завершении сервер гасится
// корректно, планировщик останавливается без ожидания текущего прохода.
func (a *App) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.scheduler.Stop()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		a.scheduler.Stop()
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
