// Package scheduler управляет единственным на процесс таймером,
// запускающим задачу рассылки напоминаний раз в день в настроенное время.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/subtracker/subtracker/internal/lib/sl"
	"github.com/subtracker/subtracker/internal/services/settings"
)

// Час и минута запуска по умолчанию, когда notify_time отсутствует
// или не разбирается.
const (
	defaultHour   = 9
	defaultMinute = 0
)

// Job — единица работы, выполняемая при каждом срабатывании таймера.
type Job interface {
	Run(ctx context.Context) error
}

// SettingsProvider описывает доступ к настройкам с учётом значений по умолчанию.
type SettingsProvider interface {
	GetString(ctx context.Context, key, def string) string
}

// Scheduler владеет таймером рассылки. Создаётся один раз при старте
// приложения и останавливается при завершении; глобального состояния нет.
type Scheduler struct {
	cronEngine *cron.Cron
	job        Job
	settings   SettingsProvider
	log        *slog.Logger
	jobTimeout time.Duration
}

// New создает новый экземпляр Scheduler. Расписание считается
// в локальном времени сервера.
func New(job Job, settingsProvider SettingsProvider, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		job:        job,
		settings:   settingsProvider,
		log:        log,
		jobTimeout: 5 * time.Minute,
	}
}

// Start читает notify_time один раз и взводит ежедневный таймер.
// Изменение notify_time во время работы процесса не подхватывается —
// для применения нового времени нужен перезапуск. Пропущенное время
// срабатывания (процесс не работал) не навёрстывается.
func (s *Scheduler) Start(ctx context.Context) error {
	const op = "scheduler.Start"

	notifyTime := s.settings.GetString(ctx, settings.KeyNotifyTime, settings.DefaultNotifyTime)
	hour, minute := ParseNotifyTime(notifyTime)

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := s.cronEngine.AddFunc(spec, s.runJob); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.cronEngine.Start()

	s.log.Info("reminder scheduler started",
		slog.String("notify_time", fmt.Sprintf("%02d:%02d", hour, minute)))
	return nil
}

// Stop отменяет ожидающие срабатывания таймера. Уже запущенный проход
// не прерывается и не дожидается: он либо завершится сам, либо умрёт
// вместе с процессом.
func (s *Scheduler) Stop() {
	s.cronEngine.Stop()
	s.log.Info("reminder scheduler stopped")
}

// NextRun возвращает время ближайшего срабатывания таймера.
// До вызова Start возвращает нулевое время.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cronEngine.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.log.Info("reminder job fired")
	if err := s.job.Run(ctx); err != nil {
		s.log.Error("reminder job failed", sl.Err(err))
	}
}

// ParseNotifyTime разбирает строку вида "HH:MM". Отсутствующий или
// некорректный час заменяется на 9, минута — на 0; ошибка наружу
// не возвращается никогда.
func ParseNotifyTime(value string) (hour, minute int) {
	hour, minute = defaultHour, defaultMinute

	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) == 0 {
		return hour, minute
	}
	if h, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil && h >= 0 && h <= 23 {
		hour = h
	}
	if len(parts) > 1 {
		if m, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && m >= 0 && m <= 59 {
			minute = m
		}
	}
	return hour, minute
}
