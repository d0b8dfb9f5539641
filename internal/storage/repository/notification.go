package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/subtracker/subtracker/internal/models"
)

// SaveNotificationLogs сохраняет все записи журнала напоминаний одной
// транзакцией. Ошибка любой вставки или коммита откатывает весь пакет:
// журнал одного запуска задачи либо записывается целиком, либо не
// записывается вовсе.
func (s *Storage) SaveNotificationLogs(ctx context.Context, logs []models.NotificationLog) error {
	const op = "storage.SaveNotificationLogs"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if len(logs) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO notifications (id, subscription_id, notify_type, message, success, error_message)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	for _, entry := range logs {
		if _, err = tx.ExecContext(ctx, query,
			entry.ID, entry.SubscriptionID, entry.NotifyType, entry.Message,
			entry.Success, entry.ErrorMessage); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListNotificationLogs возвращает последние записи журнала напоминаний,
// упорядоченные по времени отправки по убыванию.
func (s *Storage) ListNotificationLogs(ctx context.Context, limit int) ([]*models.NotificationLog, error) {
	const op = "storage.ListNotificationLogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, notify_type, message, sent_at, success, error_message
			  FROM notifications
			  ORDER BY sent_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.NotificationLog
	for rows.Next() {
		var item models.NotificationLog
		var errorMessage sql.NullString
		if err := rows.Scan(&item.ID, &item.SubscriptionID, &item.NotifyType,
			&item.Message, &item.SentAt, &item.Success, &errorMessage); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if errorMessage.Valid {
			item.ErrorMessage = &errorMessage.String
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
