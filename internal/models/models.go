// Package models содержит доменные структуры сервиса SubTracker:
// подписки, категории, настройки и журнал напоминаний,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы подписки, вычисляемые из даты окончания. Статус нигде не хранится,
// он пересчитывается при каждом чтении.
const (
	StatusExpired      = "expired"
	StatusExpiring     = "expiring"
	StatusExpiringSoon = "expiring-soon"
	StatusActive       = "active"
)

// Периоды продления подписки.
const (
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
)

// DefaultNotifyDays — сроки напоминаний по умолчанию (за сколько дней
// до окончания подписки отправляется сообщение).
var DefaultNotifyDays = []int{7, 3, 1}

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище. ExpireDate обязательна,
// StartDate и CategoryID могут отсутствовать.
type Subscription struct {
	ID           uuid.UUID  // Уникальный идентификатор
	Name         string     // Название сервиса подписки
	CategoryID   *uuid.UUID // Ссылка на категорию, может быть nil
	Provider     *string    // Поставщик сервиса
	Cost         float64    // Стоимость за период
	Currency     string     // Валюта стоимости
	BillingCycle string     // Период продления: monthly, quarterly, yearly
	StartDate    *time.Time // Дата начала подписки
	ExpireDate   time.Time  // Дата окончания подписки
	NotifyDays   []int      // Индивидуальные сроки напоминаний, nil — использовать общие
	URL          *string    // Ссылка на сервис
	Notes        *string    // Заметки
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubscriptionView — представление подписки для JSON-ответов.
// Status вычисляется на момент ответа, NotifyDays — действующий список сроков.
type SubscriptionView struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Provider     *string    `json:"provider,omitempty"`
	Cost         float64    `json:"cost"`
	Currency     string     `json:"currency"`
	BillingCycle string     `json:"billing_cycle"`
	StartDate    *string    `json:"start_date,omitempty"`
	ExpireDate   string     `json:"expire_date"`
	Status       string     `json:"status"`
	NotifyDays   []int      `json:"notify_days"`
	URL          *string    `json:"url,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Даты приходят в виде строк формата 2006-01-02, чтобы их можно было
// валидировать и парсить вручную.
type DummySubscription struct {
	Name         string  `json:"name" validate:"required,max=100"`
	CategoryID   string  `json:"category_id" validate:"omitempty,uuid"`
	Provider     string  `json:"provider" validate:"omitempty,max=100"`
	Cost         float64 `json:"cost" validate:"gte=0"`
	Currency     string  `json:"currency" validate:"omitempty,max=10"`
	BillingCycle string  `json:"billing_cycle" validate:"omitempty,oneof=monthly quarterly yearly"`
	StartDate    string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	ExpireDate   string  `json:"expire_date" validate:"required,datetime=2006-01-02"`
	NotifyDays   []int   `json:"notify_days" validate:"omitempty,dive,gte=0,lte=365"`
	URL          string  `json:"url" validate:"omitempty,max=500"`
	Notes        string  `json:"notes"`
}

// Category — пользовательская группировка подписок.
type Category struct {
	ID        uuid.UUID
	Name      string
	Color     string
	Icon      *string
	SortOrder int
	CreatedAt time.Time
}

// CategoryView — представление категории с количеством связанных подписок.
type CategoryView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Icon         *string   `json:"icon,omitempty"`
	SortOrder    int       `json:"sort_order"`
	ServiceCount int       `json:"service_count"`
}

// DummyCategory используется для приёма данных категории из JSON-запроса.
type DummyCategory struct {
	Name      string `json:"name" validate:"required,max=50"`
	Color     string `json:"color" validate:"omitempty,max=7"`
	Icon      string `json:"icon" validate:"omitempty,max=50"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// Setting — одна запись настроек вида ключ-значение.
// Value может быть nil, это равнозначно отсутствию значения.
type Setting struct {
	Key       string
	Value     *string
	UpdatedAt time.Time
}

// SettingsView — сводка всех распознаваемых настроек с применёнными
// значениями по умолчанию.
type SettingsView struct {
	NotificationToken       string  `json:"notification_token"`
	NotificationDestination string  `json:"notification_destination"`
	NotifyTime              string  `json:"notify_time"`
	DefaultNotifyDays       []int   `json:"default_notify_days"`
	DefaultCurrency         string  `json:"default_currency"`
	ExchangeRate            float64 `json:"exchange_rate"`
}

// DummySettings используется для частичного обновления настроек:
// nil-поля не изменяются.
type DummySettings struct {
	NotificationToken       *string  `json:"notification_token"`
	NotificationDestination *string  `json:"notification_destination"`
	NotifyTime              *string  `json:"notify_time" validate:"omitempty,max=5"`
	DefaultNotifyDays       []int    `json:"default_notify_days" validate:"omitempty,dive,gte=0,lte=365"`
	DefaultCurrency         *string  `json:"default_currency" validate:"omitempty,max=10"`
	ExchangeRate            *float64 `json:"exchange_rate" validate:"omitempty,gt=0"`
}

// NotificationLog — запись журнала об одной попытке отправки напоминания.
// Создаётся только фоновой задачей и никогда не обновляется.
type NotificationLog struct {
	ID             uuid.UUID
	SubscriptionID uuid.UUID
	NotifyType     string // Например, "7d" — за 7 дней до окончания
	Message        string
	SentAt         time.Time
	Success        bool
	ErrorMessage   *string
}

// NotificationLogView — представление записи журнала для JSON-ответов.
type NotificationLogView struct {
	ID             uuid.UUID `json:"id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	NotifyType     string    `json:"notify_type"`
	Message        string    `json:"message"`
	SentAt         time.Time `json:"sent_at"`
	Success        bool      `json:"success"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
}

// User — учётная запись владельца сервиса.
type User struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// OverviewStats — сводная статистика для дашборда.
type OverviewStats struct {
	TotalServices     int     `json:"total_services"`
	ActiveServices    int     `json:"active_services"`
	ExpiringThisMonth int     `json:"expiring_this_month"`
	MonthlyExpenseCNY float64 `json:"monthly_expense_cny"`
	MonthlyExpenseUSD float64 `json:"monthly_expense_usd"`
}

// CalendarDay — один день календаря продлений: параллельные списки
// подписок, истекающих в этот день.
type CalendarDay struct {
	Date           string      `json:"date"`
	ServiceIDs     []uuid.UUID `json:"service_ids"`
	ServiceNames   []string    `json:"service_names"`
	CategoryColors []string    `json:"category_colors"`
	DaysLeft       []int       `json:"days_left"`
}

// ExpenseTrendPoint — расходы одного месяца в тренде, раздельно по валютам.
type ExpenseTrendPoint struct {
	Month string  `json:"month"`
	CNY   float64 `json:"cny"`
	USD   float64 `json:"usd"`
}

// UserView — представление учётной записи для JSON-ответов.
type UserView struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiringItem — элемент списка скоро истекающих подписок.
type ExpiringItem struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	ExpireDate string     `json:"expire_date"`
	Status     string     `json:"status"`
	Cost       float64    `json:"cost"`
	Currency   string     `json:"currency"`
}
