// Package repository реализует хранилище данных на основе PostgreSQL
// для управления подписками, категориями, настройками и журналом
// напоминаний. Предоставляет методы создания, чтения, обновления,
// удаления и выборки записей, а также работу с пользователями.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки-сентинели хранилища. Оборачиваются в контекст операции
// через fmt.Errorf("%s: %w", op, err).
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrSettingNotFound      = errors.New("setting not found")
	ErrUserNotFound         = errors.New("user not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с сущностями SubTracker.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subscriptions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table subscriptions missing or query error: %w", err)
	}
	return nil
}
