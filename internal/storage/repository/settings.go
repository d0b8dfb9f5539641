package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/subtracker/subtracker/internal/models"
)

// GetSetting возвращает настройку по ключу.
// Возвращает ErrSettingNotFound, если ключ отсутствует.
func (s *Storage) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	const op = "storage.GetSetting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT key, value, updated_at FROM settings WHERE key = $1`
	var item models.Setting
	var value sql.NullString
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&item.Key, &value, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrSettingNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if value.Valid {
		item.Value = &value.String
	}
	return &item, nil
}

// UpsertSetting сохраняет значение настройки по ключу, создавая запись
// при отсутствии. Каждый вызов — независимая атомарная транзакция,
// согласованность между разными ключами не гарантируется.
func (s *Storage) UpsertSetting(ctx context.Context, key string, value *string) error {
	const op = "storage.UpsertSetting"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO settings (key, value)
			  VALUES ($1, $2)
			  ON CONFLICT (key) DO UPDATE
			  SET value = EXCLUDED.value, updated_at = now()`
	if _, err := s.DB.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
