package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDatabase поднимает контейнер PostgreSQL, применяет схему
// и возвращает подключённое хранилище вместе с функцией очистки.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(3 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable",
		host, port.Port())

	var storage *Storage
	for i := 0; i < 10; i++ {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)

	applySchema(t, storage)

	cleanup := func() {
		_ = storage.DB.Close()
		_ = container.Terminate(ctx)
	}
	return storage, cleanup
}

// applySchema создает таблицы, повторяя миграцию 000001_init.
func applySchema(t *testing.T, storage *Storage) {
	t.Helper()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name VARCHAR(50) NOT NULL,
			color VARCHAR(7) NOT NULL DEFAULT '#4382FF',
			icon VARCHAR(50),
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
			provider VARCHAR(100),
			cost NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (cost >= 0),
			currency VARCHAR(10) NOT NULL DEFAULT 'CNY',
			billing_cycle VARCHAR(20) NOT NULL DEFAULT 'monthly',
			start_date DATE,
			expire_date DATE NOT NULL,
			notify_days JSONB,
			url VARCHAR(500),
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key VARCHAR(50) PRIMARY KEY,
			value TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			subscription_id UUID NOT NULL REFERENCES subscriptions(id) ON DELETE CASCADE,
			notify_type VARCHAR(20) NOT NULL,
			message TEXT,
			sent_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			success BOOLEAN NOT NULL DEFAULT FALSE,
			error_message TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			username VARCHAR(50) PRIMARY KEY,
			password_hash VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		_, err := storage.DB.Exec(stmt)
		require.NoError(t, err)
	}
}

// truncateAll очищает все таблицы между тестами.
func truncateAll(t *testing.T, storage *Storage) {
	t.Helper()
	_, err := storage.DB.Exec(`TRUNCATE notifications, subscriptions, categories, settings, users`)
	require.NoError(t, err)
}
