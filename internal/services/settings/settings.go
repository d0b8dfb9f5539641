// Package settings содержит бизнес-логику работы с настройками:
// типизированный доступ к значениям по ключу и мягкое применение
// значений по умолчанию при отсутствии или порче данных.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/storage/repository"
)

// Распознаваемые ключи настроек.
const (
	KeyNotificationToken       = "notification_token"
	KeyNotificationDestination = "notification_destination"
	KeyNotifyTime              = "notify_time"
	KeyDefaultNotifyDays       = "default_notify_days"
	KeyDefaultCurrency         = "default_currency"
	KeyExchangeRate            = "exchange_rate"
)

// Значения по умолчанию для отсутствующих или испорченных настроек.
const (
	DefaultNotifyTime   = "09:00"
	DefaultCurrency     = "CNY"
	DefaultExchangeRate = 7.2
)

// ErrSettingInvalid возвращается типизированными методами чтения,
// когда сохранённое значение не соответствует ожидаемой форме.
var ErrSettingInvalid = errors.New("setting value is invalid")

// Repository определяет методы для работы с настройками в хранилище.
type Repository interface {
	// GetSetting возвращает настройку по ключу.
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	// UpsertSetting сохраняет значение настройки по ключу.
	UpsertSetting(ctx context.Context, key string, value *string) error
}

// Service реализует доступ к настройкам. Строгие методы (Get, GetJSON)
// возвращают ошибку; мягкие обёртки (GetString, GetIntList, GetFloat)
// подменяют любую проблему значением по умолчанию — испорченная
// настройка деградирует, а не блокирует работу.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Get возвращает строковое значение настройки.
// Отсутствие ключа или NULL-значение — repository.ErrSettingNotFound.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}
	if setting.Value == nil {
		return "", fmt.Errorf("settings.Get: %w", repository.ErrSettingNotFound)
	}
	return *setting.Value, nil
}

// GetString возвращает значение настройки или def, если ключ отсутствует
// либо чтение завершилось ошибкой.
func (s *Service) GetString(ctx context.Context, key, def string) string {
	value, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrSettingNotFound) {
			s.log.Warn("failed to read setting, using default",
				slog.String("key", key), slog.Any("err", err))
		}
		return def
	}
	return value
}

// Set сохраняет строковое значение настройки.
func (s *Service) Set(ctx context.Context, key, value string) error {
	return s.repo.UpsertSetting(ctx, key, &value)
}

// GetJSON читает JSON-значение настройки в out.
// Возвращает repository.ErrSettingNotFound при отсутствии ключа
// и ErrSettingInvalid, если значение не разбирается в ожидаемую форму.
func (s *Service) GetJSON(ctx context.Context, key string, out any) error {
	value, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("settings.GetJSON: %w: %v", ErrSettingInvalid, err)
	}
	return nil
}

// SetJSON сохраняет значение настройки в виде JSON.
func (s *Service) SetJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("settings.SetJSON: %w", err)
	}
	encoded := string(data)
	return s.repo.UpsertSetting(ctx, key, &encoded)
}

// GetIntList возвращает JSON-список целых чисел или def при отсутствии
// ключа либо нечитаемом значении.
func (s *Service) GetIntList(ctx context.Context, key string, def []int) []int {
	var result []int
	if err := s.GetJSON(ctx, key, &result); err != nil {
		if errors.Is(err, ErrSettingInvalid) {
			s.log.Warn("malformed setting value, using default", slog.String("key", key))
		}
		return def
	}
	if len(result) == 0 {
		return def
	}
	return result
}

// GetFloat возвращает числовое значение настройки или def.
func (s *Service) GetFloat(ctx context.Context, key string, def float64) float64 {
	value, err := s.Get(ctx, key)
	if err != nil {
		return def
	}
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		s.log.Warn("malformed setting value, using default", slog.String("key", key))
		return def
	}
	return result
}

// View собирает сводку всех распознаваемых настроек,
// подставляя значения по умолчанию для отсутствующих ключей.
func (s *Service) View(ctx context.Context) *models.SettingsView {
	return &models.SettingsView{
		NotificationToken:       s.GetString(ctx, KeyNotificationToken, ""),
		NotificationDestination: s.GetString(ctx, KeyNotificationDestination, ""),
		NotifyTime:              s.GetString(ctx, KeyNotifyTime, DefaultNotifyTime),
		DefaultNotifyDays:       s.GetIntList(ctx, KeyDefaultNotifyDays, models.DefaultNotifyDays),
		DefaultCurrency:         s.GetString(ctx, KeyDefaultCurrency, DefaultCurrency),
		ExchangeRate:            s.GetFloat(ctx, KeyExchangeRate, DefaultExchangeRate),
	}
}

// Update применяет частичное обновление настроек: nil-поля не изменяются.
// Каждый ключ сохраняется независимой транзакцией.
func (s *Service) Update(ctx context.Context, req models.DummySettings) error {
	if req.NotificationToken != nil {
		if err := s.Set(ctx, KeyNotificationToken, *req.NotificationToken); err != nil {
			return err
		}
	}
	if req.NotificationDestination != nil {
		if err := s.Set(ctx, KeyNotificationDestination, *req.NotificationDestination); err != nil {
			return err
		}
	}
	if req.NotifyTime != nil {
		if err := s.Set(ctx, KeyNotifyTime, *req.NotifyTime); err != nil {
			return err
		}
	}
	if req.DefaultNotifyDays != nil {
		if err := s.SetJSON(ctx, KeyDefaultNotifyDays, req.DefaultNotifyDays); err != nil {
			return err
		}
	}
	if req.DefaultCurrency != nil {
		if err := s.Set(ctx, KeyDefaultCurrency, *req.DefaultCurrency); err != nil {
			return err
		}
	}
	if req.ExchangeRate != nil {
		if err := s.Set(ctx, KeyExchangeRate, strconv.FormatFloat(*req.ExchangeRate, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}
