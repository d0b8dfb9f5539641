// Package notifier оборачивает исходящий транспорт уведомлений:
// подстановка учётных данных из настроек и сбор ошибок отправки.
package notifier

import (
	"context"
	"log/slog"

	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/services/settings"
)

// Transport описывает исходящий вызов "отправить текстовое сообщение".
type Transport interface {
	SendMessage(ctx context.Context, token, chatID, text string) error
}

// SettingsProvider описывает доступ к настройкам с учётом значений по умолчанию.
type SettingsProvider interface {
	GetString(ctx context.Context, key, def string) string
}

// Service реализует отправку уведомлений. Все сбои сводятся к паре
// (успех, текст ошибки) — наружу никогда не уходит ни ошибка, ни паника.
type Service struct {
	transport Transport
	settings  SettingsProvider
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(transport Transport, settingsProvider SettingsProvider, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		settings:  settingsProvider,
		log:       log,
	}
}

// Send отправляет сообщение. Пустые token или chatID заменяются
// значениями из настроек; если учётные данные так и не найдены,
// сетевой вызов не выполняется и возвращается (false, причина).
// Ошибка транспорта, таймаут или неуспешный статус также сводятся
// к (false, текст ошибки).
func (s *Service) Send(ctx context.Context, message, token, chatID string) (bool, string) {
	if token == "" {
		token = s.settings.GetString(ctx, settings.KeyNotificationToken, "")
	}
	if chatID == "" {
		chatID = s.settings.GetString(ctx, settings.KeyNotificationDestination, "")
	}
	if token == "" || chatID == "" {
		return false, "notification token or destination is not configured"
	}

	if err := s.transport.SendMessage(ctx, token, chatID, message); err != nil {
		s.log.Error("failed to send notification", sl.Err(err))
		return false, err.Error()
	}
	return true, ""
}
