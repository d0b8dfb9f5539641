package stats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/subtracker/subtracker/internal/lib/expiry"
	"github.com/subtracker/subtracker/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListSubscriptions(ctx context.Context, categoryID *uuid.UUID) ([]*models.Subscription, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *RepoMock) FindSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Subscription, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *RepoMock) FindSubscriptionsCoveringPeriod(ctx context.Context, from, to time.Time) ([]*models.Subscription, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type SettingsMock struct{ mock.Mock }

func (m *SettingsMock) GetFloat(ctx context.Context, key string, def float64) float64 {
	args := m.Called(ctx, key, def)
	return args.Get(0).(float64)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStats_Overview(t *testing.T) {
	now := time.Now()
	subs := []*models.Subscription{
		// 30 CNY в месяц, активная.
		{ID: uuid.New(), Cost: 30, Currency: "CNY", BillingCycle: models.CycleMonthly,
			ExpireDate: now.AddDate(0, 2, 0)},
		// 120 CNY в год, истекла: в расходы и в активные не входит.
		{ID: uuid.New(), Cost: 120, Currency: "CNY", BillingCycle: models.CycleYearly,
			ExpireDate: now.AddDate(0, 0, -10)},
		// 15 USD в квартал — 5 USD в месяц, по курсу 7.2 это 36 CNY.
		{ID: uuid.New(), Cost: 15, Currency: "USD", BillingCycle: models.CycleQuarterly,
			ExpireDate: now.AddDate(0, 3, 0)},
	}

	repo := new(RepoMock)
	settings := new(SettingsMock)
	repo.On("ListSubscriptions", mock.Anything, (*uuid.UUID)(nil)).Return(subs, nil).Once()
	settings.On("GetFloat", mock.Anything, "exchange_rate", 7.2).Return(7.2).Once()

	stats, err := NewService(repo, settings, NewNoopLogger()).Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalServices)
	assert.Equal(t, 2, stats.ActiveServices)
	assert.Equal(t, 0, stats.ExpiringThisMonth)
	assert.InDelta(t, 30+36, stats.MonthlyExpenseCNY, 0.001)
	assert.InDelta(t, (30+36)/7.2, stats.MonthlyExpenseUSD, 0.001)

	repo.AssertExpectations(t)
	settings.AssertExpectations(t)
}

// Истёкшая годовая подписка не добавляет свои 10 CNY в месячные расходы,
// а скоро истекающая не считается активной.
func TestStats_Overview_ExpiredAndExpiringSoon(t *testing.T) {
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	subs := []*models.Subscription{
		{ID: uuid.New(), Cost: 120, Currency: "CNY", BillingCycle: models.CycleYearly,
			ExpireDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Cost: 30, Currency: "CNY", BillingCycle: models.CycleMonthly,
			ExpireDate: time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)},
	}

	stats := buildOverview(subs, 7.2, today)

	assert.Equal(t, 2, stats.TotalServices)
	assert.Equal(t, 0, stats.ActiveServices)
	assert.InDelta(t, 30, stats.MonthlyExpenseCNY, 0.001)
	// Истёкшая первого марта уже позади, истекающая двенадцатого — впереди.
	assert.Equal(t, 1, stats.ExpiringThisMonth)
}

// ExpiringThisMonth покрывает интервал от сегодня до конца месяца включительно.
func TestStats_Overview_ExpiringThisMonthBounds(t *testing.T) {
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	subs := []*models.Subscription{
		{ID: uuid.New(), Cost: 10, Currency: "CNY", BillingCycle: models.CycleMonthly,
			ExpireDate: today},
		{ID: uuid.New(), Cost: 10, Currency: "CNY", BillingCycle: models.CycleMonthly,
			ExpireDate: time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Cost: 10, Currency: "CNY", BillingCycle: models.CycleMonthly,
			ExpireDate: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}

	stats := buildOverview(subs, 7.2, today)
	assert.Equal(t, 2, stats.ExpiringThisMonth)
}

func TestStats_Overview_Empty(t *testing.T) {
	repo := new(RepoMock)
	settings := new(SettingsMock)
	repo.On("ListSubscriptions", mock.Anything, (*uuid.UUID)(nil)).
		Return([]*models.Subscription{}, nil).Once()
	settings.On("GetFloat", mock.Anything, "exchange_rate", 7.2).Return(7.2).Once()

	stats, err := NewService(repo, settings, NewNoopLogger()).Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalServices)
	assert.Zero(t, stats.MonthlyExpenseCNY)
}

func TestStats_Expiring(t *testing.T) {
	sub := &models.Subscription{
		ID:         uuid.New(),
		Name:       "Netflix",
		Cost:       45,
		Currency:   "CNY",
		ExpireDate: time.Now().AddDate(0, 0, 5),
	}

	repo := new(RepoMock)
	settings := new(SettingsMock)
	repo.On("FindSubscriptionsExpiringBetween", mock.Anything,
		mock.MatchedBy(func(from time.Time) bool { return from.Hour() == 0 }),
		mock.Anything).Return([]*models.Subscription{sub}, nil).Once()

	items, err := NewService(repo, settings, NewNoopLogger()).Expiring(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Netflix", items[0].Name)
	assert.Equal(t, models.StatusExpiringSoon, items[0].Status)

	repo.AssertExpectations(t)
}

func TestStats_Calendar(t *testing.T) {
	start := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	subs := []*models.Subscription{
		{ID: uuid.New(), Name: "Netflix", Cost: 45, Currency: "CNY",
			ExpireDate: time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Name: "Spotify", Cost: 15, Currency: "CNY",
			ExpireDate: time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Name: "iCloud", Cost: 6, Currency: "CNY",
			ExpireDate: time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)},
	}

	repo := new(RepoMock)
	settings := new(SettingsMock)
	repo.On("FindSubscriptionsExpiringBetween", mock.Anything, start, end).
		Return(subs, nil).Once()

	days, err := NewService(repo, settings, NewNoopLogger()).Calendar(context.Background(), 2026, 2)
	require.NoError(t, err)
	require.Len(t, days, 28)

	assert.Equal(t, "2026-02-01", days[0].Date)
	assert.Empty(t, days[0].ServiceNames)
	assert.NotNil(t, days[0].ServiceNames)

	day14 := days[13]
	assert.Equal(t, "2026-02-14", day14.Date)
	assert.Equal(t, []string{"Netflix", "Spotify"}, day14.ServiceNames)
	assert.Equal(t, []string{defaultCategoryColor, defaultCategoryColor}, day14.CategoryColors)
	assert.Len(t, day14.ServiceIDs, 2)
	assert.Len(t, day14.DaysLeft, 2)

	assert.Equal(t, []string{"iCloud"}, days[19].ServiceNames)

	repo.AssertExpectations(t)
}

func TestStats_Costs(t *testing.T) {
	today := expiry.Truncate(time.Now())
	currentStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	prevStart := currentStart.AddDate(0, -1, 0)

	prevSubs := []*models.Subscription{
		{ID: uuid.New(), Cost: 30, Currency: "CNY", BillingCycle: models.CycleMonthly,
			ExpireDate: prevStart.AddDate(0, 0, 20)},
		// 120 USD в год — 10 USD в месяц, без пересчёта по курсу.
		{ID: uuid.New(), Cost: 120, Currency: "USD", BillingCycle: models.CycleYearly,
			ExpireDate: prevStart.AddDate(1, 0, 0)},
	}

	repo := new(RepoMock)
	settings := new(SettingsMock)
	repo.On("FindSubscriptionsCoveringPeriod", mock.Anything,
		prevStart, prevStart.AddDate(0, 1, -1)).Return(prevSubs, nil).Once()
	repo.On("FindSubscriptionsCoveringPeriod", mock.Anything,
		currentStart, currentStart.AddDate(0, 1, -1)).Return([]*models.Subscription{}, nil).Once()

	points, err := NewService(repo, settings, NewNoopLogger()).Costs(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, fmt.Sprintf("%d月", int(prevStart.Month())), points[0].Month)
	assert.InDelta(t, 30, points[0].CNY, 0.001)
	assert.InDelta(t, 10, points[0].USD, 0.001)

	assert.Equal(t, fmt.Sprintf("%d月", int(currentStart.Month())), points[1].Month)
	assert.Zero(t, points[1].CNY)
	assert.Zero(t, points[1].USD)

	repo.AssertExpectations(t)
}
