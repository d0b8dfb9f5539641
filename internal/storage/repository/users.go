package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/subtracker/subtracker/internal/models"
)

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, password_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, username).Scan(
		&u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserPassword заменяет хеш пароля пользователя и возвращает
// количество изменённых строк.
func (s *Storage) UpdateUserPassword(ctx context.Context, username, passwordHash string) (int, error) {
	const op = "storage.UpdateUserPassword"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET password_hash = $1 WHERE username = $2`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
