// Package reminder реализует ежедневную фоновую задачу: поиск подписок,
// истекающих через настроенные сроки, отправку напоминаний и запись
// результатов в журнал.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/subtracker/subtracker/internal/lib/expiry"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/services/settings"
)

var remindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "subtracker_reminders_sent_total",
	Help: "Total reminder delivery attempts by result.",
}, []string{"result"})

// SubscriptionRepository определяет выборку подписок по точной дате окончания.
type SubscriptionRepository interface {
	FindSubscriptionsExpiringOn(ctx context.Context, target time.Time) ([]*models.Subscription, error)
}

// NotificationLogRepository сохраняет журнал одного запуска задачи
// единой транзакцией.
type NotificationLogRepository interface {
	SaveNotificationLogs(ctx context.Context, logs []models.NotificationLog) error
}

// SettingsProvider описывает доступ к настройкам с учётом значений по умолчанию.
type SettingsProvider interface {
	GetString(ctx context.Context, key, def string) string
	GetIntList(ctx context.Context, key string, def []int) []int
}

// Sender отправляет одно напоминание и сводит любые сбои
// к паре (успех, текст ошибки).
type Sender interface {
	Send(ctx context.Context, message, token, chatID string) (bool, string)
}

// Service — задача рассылки напоминаний. Выполняется строго
// последовательно: без параллельной отправки, без повторов внутри дня.
type Service struct {
	subs     SubscriptionRepository
	logs     NotificationLogRepository
	settings SettingsProvider
	sender   Sender
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(subs SubscriptionRepository, logs NotificationLogRepository,
	settingsProvider SettingsProvider, sender Sender, log *slog.Logger) *Service {
	return &Service{
		subs:     subs,
		logs:     logs,
		settings: settingsProvider,
		sender:   sender,
		log:      log,
	}
}

// Run выполняет один проход рассылки:
//
//  1. Если учётные данные уведомлений не настроены — тихий выход без ошибки
//     и без записей в журнале.
//  2. Для каждого срока d из default_notify_days выбираются подписки,
//     истекающие ровно через d дней (точное совпадение даты, не диапазон).
//  3. По каждой подписке отправляется сообщение; неудачная отправка
//     фиксируется в журнале и не прерывает обработку остальных.
//  4. Все записи журнала сохраняются одной транзакцией в конце прохода.
//
// Ошибка выборки или сохранения прерывает весь проход и уходит наверх;
// повторная попытка — только при следующем срабатывании расписания.
// Защиты от двойного запуска в один день нет: в процессе существует
// единственный таймер.
func (s *Service) Run(ctx context.Context) error {
	const op = "reminder.Run"

	token := s.settings.GetString(ctx, settings.KeyNotificationToken, "")
	destination := s.settings.GetString(ctx, settings.KeyNotificationDestination, "")
	if token == "" || destination == "" {
		s.log.Info("notification credentials are not configured, skipping reminder run")
		return nil
	}

	notifyDays := s.settings.GetIntList(ctx, settings.KeyDefaultNotifyDays, models.DefaultNotifyDays)
	today := expiry.Truncate(time.Now())

	var logs []models.NotificationLog
	for _, days := range notifyDays {
		target := today.AddDate(0, 0, days)
		subs, err := s.subs.FindSubscriptionsExpiringOn(ctx, target)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		for _, sub := range subs {
			message := renderMessage(sub, days)
			ok, sendErr := s.sender.Send(ctx, message, token, destination)

			entry := models.NotificationLog{
				ID:             uuid.New(),
				SubscriptionID: sub.ID,
				NotifyType:     fmt.Sprintf("%dd", days),
				Message:        message,
				Success:        ok,
			}
			if ok {
				remindersSent.WithLabelValues("success").Inc()
			} else {
				entry.ErrorMessage = &sendErr
				remindersSent.WithLabelValues("failure").Inc()
				s.log.Error("failed to send reminder",
					slog.String("subscription", sub.Name),
					slog.String("error", sendErr))
			}
			logs = append(logs, entry)
		}
	}

	if err := s.logs.SaveNotificationLogs(ctx, logs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("reminder run finished", slog.Int("notifications", len(logs)))
	return nil
}

func renderMessage(sub *models.Subscription, days int) string {
	return fmt.Sprintf("SubTracker: subscription %q expires on %s, %d day(s) left. Renew it in time.",
		sub.Name, sub.ExpireDate.Format("2006-01-02"), days)
}
