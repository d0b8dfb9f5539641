package expiry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/subtracker/subtracker/internal/lib/expiry"
	"github.com/subtracker/subtracker/internal/models"
)

func TestStatus(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		delta int
		want  string
	}{
		{"yesterday is expired", -1, models.StatusExpired},
		{"today is expiring", 0, models.StatusExpiring},
		{"three days left is expiring", 3, models.StatusExpiring},
		{"four days left is expiring-soon", 4, models.StatusExpiringSoon},
		{"seven days left is expiring-soon", 7, models.StatusExpiringSoon},
		{"eight days left is active", 8, models.StatusActive},
		{"far in the past is expired", -400, models.StatusExpired},
		{"far in the future is active", 365, models.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expire := today.AddDate(0, 0, tt.delta)
			assert.Equal(t, tt.want, expiry.Status(expire, today))
		})
	}
}

func TestStatus_IgnoresTimeOfDay(t *testing.T) {
	// Подписка истекает сегодня поздно вечером, проверка выполняется утром:
	// разница меньше суток, но это всё ещё 0 полных дней.
	today := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	expire := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, models.StatusExpiring, expiry.Status(expire, today))
	assert.Equal(t, 0, expiry.DaysUntil(expire, today))
}

func TestAdvance(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		cycle string
		want  time.Time
	}{
		{"monthly adds 30 days", models.CycleMonthly, base.AddDate(0, 0, 30)},
		{"quarterly adds 90 days", models.CycleQuarterly, base.AddDate(0, 0, 90)},
		{"yearly keeps month and day", models.CycleYearly, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"unknown cycle falls back to monthly", "weekly", base.AddDate(0, 0, 30)},
		{"empty cycle falls back to monthly", "", base.AddDate(0, 0, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expiry.Advance(base, tt.cycle))
		})
	}
}

func TestAdvance_YearlyFromLeapDay(t *testing.T) {
	// 29 февраля 2024 + год: в 2025 такой даты нет,
	// time.Date нормализует её в 1 марта.
	leap := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	got := expiry.Advance(leap, models.CycleYearly)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, expiry.DaysUntil(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, -31, expiry.DaysUntil(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 0, expiry.DaysUntil(today, today))
}
