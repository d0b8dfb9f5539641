// Package expiry содержит чистые функции для работы с датой окончания
// подписки: вычисление статуса и расчёт новой даты при продлении.
package expiry

import (
	"time"

	"github.com/subtracker/subtracker/internal/models"
)

// Status вычисляет статус подписки по количеству полных дней
// от today до expireDate:
//
//	< 0   — expired
//	0..3  — expiring
//	4..7  — expiring-soon
//	> 7   — active
//
// Статус никогда не сохраняется в базу, он пересчитывается при каждом чтении,
// поэтому всегда согласован с текущей датой.
func Status(expireDate, today time.Time) string {
	delta := DaysUntil(expireDate, today)
	switch {
	case delta < 0:
		return models.StatusExpired
	case delta <= 3:
		return models.StatusExpiring
	case delta <= 7:
		return models.StatusExpiringSoon
	default:
		return models.StatusActive
	}
}

// DaysUntil возвращает количество полных календарных дней от today до date.
// Обе даты сначала обрезаются до полуночи, поэтому время суток не влияет
// на результат. Значение может быть отрицательным.
func DaysUntil(date, today time.Time) int {
	d := Truncate(date)
	t := Truncate(today)
	return int(d.Sub(t).Hours() / 24)
}

// Truncate обрезает время до полуночи в той же временной зоне.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Advance рассчитывает новую дату окончания подписки после продления:
//
//	monthly   — +30 дней
//	quarterly — +90 дней
//	yearly    — то же число того же месяца следующего года
//
// Нераспознанный период ведёт себя как monthly: это защитный откат,
// а не ошибка. Для yearly при продлении с 29 февраля на невисокосный год
// дата нормализуется в 1 марта (стандартное поведение time.Date).
// Пересчёт статуса после продления — обязанность вызывающего.
func Advance(expireDate time.Time, billingCycle string) time.Time {
	switch billingCycle {
	case models.CycleQuarterly:
		return expireDate.AddDate(0, 0, 90)
	case models.CycleYearly:
		return time.Date(expireDate.Year()+1, expireDate.Month(), expireDate.Day(),
			expireDate.Hour(), expireDate.Minute(), expireDate.Second(), expireDate.Nanosecond(), expireDate.Location())
	default:
		return expireDate.AddDate(0, 0, 30)
	}
}
