// Package stats собирает сводную статистику по подпискам: итоги для
// дашборда и список скоро истекающих.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/subtracker/subtracker/internal/lib/expiry"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/services/settings"
)

// Цвет категории по умолчанию, совпадает со значением колонки в базе.
const defaultCategoryColor = "#4382FF"

// SubscriptionRepository определяет выборки подписок для статистики.
type SubscriptionRepository interface {
	ListSubscriptions(ctx context.Context, categoryID *uuid.UUID) ([]*models.Subscription, error)
	FindSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Subscription, error)
	FindSubscriptionsCoveringPeriod(ctx context.Context, from, to time.Time) ([]*models.Subscription, error)
}

// SettingsProvider даёт доступ к курсу обмена для пересчёта валют.
type SettingsProvider interface {
	GetFloat(ctx context.Context, key string, def float64) float64
}

// Service реализует расчёт статистики. Все агрегаты считаются в памяти
// по полному списку подписок: данных у одного владельца немного.
type Service struct {
	repo     SubscriptionRepository
	settings SettingsProvider
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo SubscriptionRepository, settingsProvider SettingsProvider, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		settings: settingsProvider,
		log:      log,
	}
}

// Overview возвращает сводку для дашборда: количество подписок, число
// активных, число истекающих до конца текущего месяца и месячные
// расходы в CNY и USD. Стоимость приводится к месячной: квартальная
// делится на 3, годовая — на 12. Суммы в других валютах пересчитываются
// через exchange_rate (CNY за 1 USD).
func (s *Service) Overview(ctx context.Context) (*models.OverviewStats, error) {
	subs, err := s.repo.ListSubscriptions(ctx, nil)
	if err != nil {
		return nil, err
	}

	rate := s.settings.GetFloat(ctx, settings.KeyExchangeRate, settings.DefaultExchangeRate)
	return buildOverview(subs, rate, expiry.Truncate(time.Now())), nil
}

// buildOverview считает агрегаты на заданную дату. Активными считаются
// только подписки со статусом active; истёкшие в расходы не входят;
// ExpiringThisMonth покрывает интервал от today до конца месяца
// включительно, уже прошедшие дни месяца не учитываются.
func buildOverview(subs []*models.Subscription, rate float64, today time.Time) *models.OverviewStats {
	endOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).
		AddDate(0, 1, -1)
	stats := &models.OverviewStats{TotalServices: len(subs)}

	var totalCNY float64
	for _, sub := range subs {
		status := expiry.Status(sub.ExpireDate, today)
		if status == models.StatusActive {
			stats.ActiveServices++
		}
		expire := expiry.Truncate(sub.ExpireDate)
		if !expire.Before(today) && !expire.After(endOfMonth) {
			stats.ExpiringThisMonth++
		}
		if status == models.StatusExpired {
			continue
		}

		monthly := monthlyCost(sub)
		if sub.Currency == "USD" {
			monthly *= rate
		}
		totalCNY += monthly
	}
	stats.MonthlyExpenseCNY = totalCNY
	if rate > 0 {
		stats.MonthlyExpenseUSD = totalCNY / rate
	}
	return stats
}

// Expiring возвращает подписки, истекающие в ближайшие days дней
// (включая сегодня), упорядоченные по дате окончания.
func (s *Service) Expiring(ctx context.Context, days int) ([]*models.ExpiringItem, error) {
	today := expiry.Truncate(time.Now())
	to := today.AddDate(0, 0, days)

	subs, err := s.repo.FindSubscriptionsExpiringBetween(ctx, today, to)
	if err != nil {
		return nil, err
	}

	items := make([]*models.ExpiringItem, 0, len(subs))
	for _, sub := range subs {
		items = append(items, &models.ExpiringItem{
			ID:         sub.ID,
			Name:       sub.Name,
			CategoryID: sub.CategoryID,
			ExpireDate: sub.ExpireDate.Format("2006-01-02"),
			Status:     expiry.Status(sub.ExpireDate, today),
			Cost:       sub.Cost,
			Currency:   sub.Currency,
		})
	}
	return items, nil
}

// Calendar возвращает по одному элементу на каждый день месяца с
// подписками, истекающими в этот день. Дни без подписок тоже включаются,
// с пустыми списками.
func (s *Service) Calendar(ctx context.Context, year, month int) ([]*models.CalendarDay, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	subs, err := s.repo.FindSubscriptionsExpiringBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int][]*models.Subscription)
	for _, sub := range subs {
		byDay[sub.ExpireDate.Day()] = append(byDay[sub.ExpireDate.Day()], sub)
	}

	today := expiry.Truncate(time.Now())
	lastDay := end.Day()
	result := make([]*models.CalendarDay, 0, lastDay)
	for d := 1; d <= lastDay; d++ {
		day := &models.CalendarDay{
			Date:           time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			ServiceIDs:     []uuid.UUID{},
			ServiceNames:   []string{},
			CategoryColors: []string{},
			DaysLeft:       []int{},
		}
		for _, sub := range byDay[d] {
			day.ServiceIDs = append(day.ServiceIDs, sub.ID)
			day.ServiceNames = append(day.ServiceNames, sub.Name)
			// TODO: подтягивать цвет категории подписки вместо цвета по умолчанию
			day.CategoryColors = append(day.CategoryColors, defaultCategoryColor)
			day.DaysLeft = append(day.DaysLeft, expiry.DaysUntil(sub.ExpireDate, today))
		}
		result = append(result, day)
	}
	return result, nil
}

// Costs возвращает помесячный тренд расходов за последние months месяцев,
// включая текущий. В каждый месяц попадают подписки, не истёкшие к его
// началу и начатые не позже его конца; стоимость приводится к месячной.
// Суммы считаются раздельно по валютам, без пересчёта по курсу.
func (s *Service) Costs(ctx context.Context, months int) ([]*models.ExpenseTrendPoint, error) {
	today := expiry.Truncate(time.Now())
	currentMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	result := make([]*models.ExpenseTrendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := currentMonth.AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, -1)

		subs, err := s.repo.FindSubscriptionsCoveringPeriod(ctx, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}

		var cny, usd float64
		for _, sub := range subs {
			monthly := monthlyCost(sub)
			if sub.Currency == "CNY" {
				cny += monthly
			} else {
				usd += monthly
			}
		}
		result = append(result, &models.ExpenseTrendPoint{
			Month: fmt.Sprintf("%d月", int(monthStart.Month())),
			CNY:   cny,
			USD:   usd,
		})
	}
	return result, nil
}

func monthlyCost(sub *models.Subscription) float64 {
	switch sub.BillingCycle {
	case models.CycleQuarterly:
		return sub.Cost / 3
	case models.CycleYearly:
		return sub.Cost / 12
	default:
		return sub.Cost
	}
}
