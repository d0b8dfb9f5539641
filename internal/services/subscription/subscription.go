// Package subscription содержит бизнес-логику для управления подписками,
// включая кеширование, пересчёт статуса и продление по периоду оплаты.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/subtracker/subtracker/internal/lib/expiry"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/services/settings"
	"github.com/subtracker/subtracker/internal/storage/repository"
)

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (uuid.UUID, error)
	// ReadSubscription возвращает подписку по ID.
	ReadSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	// UpdateSubscription обновляет данные подписки по ID.
	UpdateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, id uuid.UUID) (int, error)
	// ListSubscriptions возвращает подписки, опционально ограниченные категорией.
	ListSubscriptions(ctx context.Context, categoryID *uuid.UUID) ([]*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SettingsProvider даёт доступ к валюте по умолчанию для новых подписок.
type SettingsProvider interface {
	GetString(ctx context.Context, key, def string) string
}

// Service реализует бизнес-логику работы с подписками.
// Кешируется сама запись подписки, но не её статус: статус вычисляется
// заново при каждом чтении, поэтому попадание в кеш не может вернуть
// устаревший статус.
type Service struct {
	repo     Repository
	cache    Cache
	settings SettingsProvider
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, settingsProvider SettingsProvider, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		settings: settingsProvider,
		log:      log,
	}
}

// Create создает новую подписку и возвращает её представление.
func (s *Service) Create(ctx context.Context, req models.DummySubscription) (*models.SubscriptionView, error) {
	sub, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	sub.ID = uuid.New()

	id, err := s.repo.CreateSubscription(ctx, *sub)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new subscription", slog.String("id", id.String()))

	s.cacheSet(*sub)
	return s.toView(*sub), nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
// Статус в ответе всегда пересчитан на текущую дату.
func (s *Service) Read(ctx context.Context, id uuid.UUID) (*models.SubscriptionView, error) {
	cacheKey := cacheKey(id)

	var cached models.Subscription
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return s.toView(cached), nil
	}

	sub, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(*sub)
	return s.toView(*sub), nil
}

// Update полностью обновляет подписку по ID и возвращает её представление.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req models.DummySubscription) (*models.SubscriptionView, error) {
	const op = "services.subscription.Update"

	sub, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	count, err := s.repo.UpdateSubscription(ctx, *sub)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrSubscriptionNotFound)
	}

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	return s.toView(*sub), nil
}

// Remove удаляет подписку по ID и инвалидирует кеш.
// Возвращает количество удалённых записей.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (int, error) {
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	return s.repo.RemoveSubscription(ctx, id)
}

// List возвращает представления подписок, упорядоченные по дате окончания.
// Фильтр по категории применяется в запросе, фильтр по статусу — по
// вычисленным значениям, поскольку статус нигде не хранится.
func (s *Service) List(ctx context.Context, categoryID *uuid.UUID, statusFilter string) ([]*models.SubscriptionView, error) {
	subs, err := s.repo.ListSubscriptions(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		view := s.toView(*sub)
		if statusFilter != "" && view.Status != statusFilter {
			continue
		}
		result = append(result, view)
	}
	return result, nil
}

// Renew продлевает подписку: рассчитывает новую дату окончания по периоду
// оплаты и сохраняет её. Статус пересчитывается от новой даты.
func (s *Service) Renew(ctx context.Context, id uuid.UUID) (*models.SubscriptionView, error) {
	sub, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	sub.ExpireDate = expiry.Advance(sub.ExpireDate, sub.BillingCycle)
	if _, err := s.repo.UpdateSubscription(ctx, *sub); err != nil {
		return nil, err
	}
	s.log.Info("renewed subscription",
		slog.String("id", id.String()),
		slog.String("new_expire_date", sub.ExpireDate.Format("2006-01-02")))

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	s.cacheSet(*sub)
	return s.toView(*sub), nil
}

// fromRequest конвертирует JSON-запрос в доменную модель, подставляя
// значения по умолчанию для валюты и периода оплаты.
func (s *Service) fromRequest(ctx context.Context, req models.DummySubscription) (*models.Subscription, error) {
	expireDate, err := time.Parse("2006-01-02", req.ExpireDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expire date: %w", err)
	}

	sub := models.Subscription{
		Name:         req.Name,
		Cost:         req.Cost,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
		ExpireDate:   expireDate,
		NotifyDays:   req.NotifyDays,
	}
	if sub.Currency == "" {
		sub.Currency = s.settings.GetString(ctx, settings.KeyDefaultCurrency, settings.DefaultCurrency)
	}
	if sub.BillingCycle == "" {
		sub.BillingCycle = models.CycleMonthly
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id: %w", err)
		}
		sub.CategoryID = &categoryID
	}
	if req.StartDate != "" {
		startDate, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		sub.StartDate = &startDate
	}
	if req.Provider != "" {
		sub.Provider = &req.Provider
	}
	if req.URL != "" {
		sub.URL = &req.URL
	}
	if req.Notes != "" {
		sub.Notes = &req.Notes
	}
	return &sub, nil
}

// toView строит представление подписки со свежим статусом и действующим
// списком сроков напоминаний.
func (s *Service) toView(sub models.Subscription) *models.SubscriptionView {
	notifyDays := sub.NotifyDays
	if notifyDays == nil {
		notifyDays = models.DefaultNotifyDays
	}

	view := &models.SubscriptionView{
		ID:           sub.ID,
		Name:         sub.Name,
		CategoryID:   sub.CategoryID,
		Provider:     sub.Provider,
		Cost:         sub.Cost,
		Currency:     sub.Currency,
		BillingCycle: sub.BillingCycle,
		ExpireDate:   sub.ExpireDate.Format("2006-01-02"),
		Status:       expiry.Status(sub.ExpireDate, time.Now()),
		NotifyDays:   notifyDays,
		URL:          sub.URL,
		Notes:        sub.Notes,
	}
	if sub.StartDate != nil {
		startDate := sub.StartDate.Format("2006-01-02")
		view.StartDate = &startDate
	}
	return view
}

func (s *Service) cacheSet(sub models.Subscription) {
	key := cacheKey(sub.ID)
	if err := s.cache.Set(key, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", key), slog.Any("err", err))
	}
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("subscription:%s", id)
}
