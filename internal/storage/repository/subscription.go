package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/subtracker/subtracker/internal/models"
)

const subscriptionColumns = `id, name, category_id, provider, cost, currency, billing_cycle,
			      start_date, expire_date, notify_days, url, notes, created_at, updated_at`

// CreateSubscription вставляет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (uuid.UUID, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	notifyDays, err := marshalNotifyDays(sub.NotifyDays)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO subscriptions (id, name, category_id, provider, cost, currency,
			      billing_cycle, start_date, expire_date, notify_days, url, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id`
	var newID uuid.UUID
	err = s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.Name, sub.CategoryID, sub.Provider, sub.Cost, sub.Currency,
		sub.BillingCycle, sub.StartDate, sub.ExpireDate, notifyDays, sub.URL, sub.Notes).Scan(&newID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает подписку по её ID.
func (s *Storage) ReadSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	result, err := scanSubscription(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscription обновляет данные подписки по её ID и возвращает количество изменённых строк.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	notifyDays, err := marshalNotifyDays(sub.NotifyDays)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE subscriptions
			  SET name = $1, category_id = $2, provider = $3, cost = $4, currency = $5,
			      billing_cycle = $6, start_date = $7, expire_date = $8, notify_days = $9,
			      url = $10, notes = $11, updated_at = now()
			  WHERE id = $12`
	result, err := s.DB.ExecContext(ctx, query,
		sub.Name, sub.CategoryID, sub.Provider, sub.Cost, sub.Currency,
		sub.BillingCycle, sub.StartDate, sub.ExpireDate, notifyDays,
		sub.URL, sub.Notes, sub.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых строк.
// Записи журнала напоминаний удаляются каскадно на уровне базы.
func (s *Storage) RemoveSubscription(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptions возвращает все подписки, упорядоченные по дате окончания.
// Если categoryID не nil, выборка ограничивается этой категорией.
func (s *Storage) ListSubscriptions(ctx context.Context, categoryID *uuid.UUID) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE ($1::uuid IS NULL OR category_id = $1)
			  ORDER BY expire_date`
	rows, err := s.DB.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindSubscriptionsExpiringOn находит подписки, дата окончания которых
// точно равна target (сравнение по календарному дню).
func (s *Storage) FindSubscriptionsExpiringOn(ctx context.Context, target time.Time) ([]*models.Subscription, error) {
	const op = "storage.FindSubscriptionsExpiringOn"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE expire_date = $1::date`
	rows, err := s.DB.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindSubscriptionsExpiringBetween находит подписки с датой окончания
// в интервале [from, to] включительно, упорядоченные по дате окончания.
func (s *Storage) FindSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Subscription, error) {
	const op = "storage.FindSubscriptionsExpiringBetween"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE expire_date >= $1::date AND expire_date <= $2::date
			  ORDER BY expire_date`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindSubscriptionsCoveringPeriod находит подписки, действовавшие
// в интервале [from, to]: дата окончания не раньше from, а дата начала
// (если задана) не позже to.
func (s *Storage) FindSubscriptionsCoveringPeriod(ctx context.Context, from, to time.Time) ([]*models.Subscription, error) {
	const op = "storage.FindSubscriptionsCoveringPeriod"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE expire_date >= $1::date
			    AND (start_date IS NULL OR start_date <= $2::date)
			  ORDER BY expire_date`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// scanSubscription читает одну строку выборки подписки,
// разворачивая nullable-колонки и JSON-список сроков напоминаний.
func scanSubscription(scan func(dest ...any) error) (*models.Subscription, error) {
	var item models.Subscription
	var categoryID uuid.NullUUID
	var provider, url, notes sql.NullString
	var startDate sql.NullTime
	var notifyDays []byte

	if err := scan(&item.ID, &item.Name, &categoryID, &provider, &item.Cost,
		&item.Currency, &item.BillingCycle, &startDate, &item.ExpireDate,
		&notifyDays, &url, &notes, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}

	if categoryID.Valid {
		item.CategoryID = &categoryID.UUID
	}
	if provider.Valid {
		item.Provider = &provider.String
	}
	if startDate.Valid {
		item.StartDate = &startDate.Time
	}
	if url.Valid {
		item.URL = &url.String
	}
	if notes.Valid {
		item.Notes = &notes.String
	}
	if len(notifyDays) > 0 {
		if err := json.Unmarshal(notifyDays, &item.NotifyDays); err != nil {
			return nil, fmt.Errorf("invalid notify_days value: %w", err)
		}
	}
	return &item, nil
}

func marshalNotifyDays(days []int) ([]byte, error) {
	if days == nil {
		return nil, nil
	}
	return json.Marshal(days)
}
