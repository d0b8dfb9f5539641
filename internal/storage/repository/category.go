package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/subtracker/subtracker/internal/models"
)

// CreateCategory вставляет новую категорию, назначая ей следующий
// порядковый номер, и возвращает её ID.
func (s *Storage) CreateCategory(ctx context.Context, category models.Category) (uuid.UUID, error) {
	const op = "storage.CreateCategory"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO categories (id, name, color, icon, sort_order)
			  VALUES ($1, $2, $3, $4,
			      (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM categories))
			  RETURNING id`
	var newID uuid.UUID
	err := s.DB.QueryRowContext(ctx, query,
		category.ID, category.Name, category.Color, category.Icon).Scan(&newID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadCategory возвращает категорию по её ID.
func (s *Storage) ReadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	const op = "storage.ReadCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, color, icon, sort_order, created_at
			  FROM categories WHERE id = $1`
	var item models.Category
	var icon sql.NullString
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Color, &icon, &item.SortOrder, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if icon.Valid {
		item.Icon = &icon.String
	}
	return &item, nil
}

// ListCategories возвращает все категории с количеством связанных подписок,
// упорядоченные по sort_order и дате создания.
func (s *Storage) ListCategories(ctx context.Context) ([]*models.CategoryView, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.name, c.color, c.icon, c.sort_order, COUNT(s.id)
			  FROM categories c
			  LEFT JOIN subscriptions s ON s.category_id = c.id
			  GROUP BY c.id, c.name, c.color, c.icon, c.sort_order, c.created_at
			  ORDER BY c.sort_order, c.created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CategoryView
	for rows.Next() {
		var item models.CategoryView
		var icon sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Color, &icon,
			&item.SortOrder, &item.ServiceCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if icon.Valid {
			item.Icon = &icon.String
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCategory обновляет категорию по её ID и возвращает количество изменённых строк.
func (s *Storage) UpdateCategory(ctx context.Context, category models.Category) (int, error) {
	const op = "storage.UpdateCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE categories
			  SET name = $1, color = $2, icon = $3, sort_order = $4
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		category.Name, category.Color, category.Icon, category.SortOrder, category.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCategory удаляет категорию по ID и возвращает количество удалённых строк.
// Ссылки подписок на категорию обнуляются на уровне базы (ON DELETE SET NULL),
// сами подписки никогда не удаляются.
func (s *Storage) RemoveCategory(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "storage.RemoveCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM categories WHERE id = $1`
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
