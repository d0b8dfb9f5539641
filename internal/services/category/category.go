// Package category содержит бизнес-логику работы с категориями подписок.
package category

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/subtracker/subtracker/internal/models"
)

// Repository определяет методы для работы с категориями в хранилище.
type Repository interface {
	CreateCategory(ctx context.Context, category models.Category) (uuid.UUID, error)
	ReadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.CategoryView, error)
	UpdateCategory(ctx context.Context, category models.Category) (int, error)
	RemoveCategory(ctx context.Context, id uuid.UUID) (int, error)
}

// Service реализует операции над категориями. Категория — слабая
// группировка: её удаление обнуляет ссылки подписок, но не трогает их.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create создает категорию. Порядковый номер назначается хранилищем
// как следующий за максимальным.
func (s *Service) Create(ctx context.Context, req models.DummyCategory) (uuid.UUID, error) {
	category := models.Category{
		ID:    uuid.New(),
		Name:  req.Name,
		Color: req.Color,
	}
	if category.Color == "" {
		category.Color = "#4382FF"
	}
	if req.Icon != "" {
		category.Icon = &req.Icon
	}

	id, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Info("created new category", slog.String("id", id.String()))
	return id, nil
}

// List возвращает категории с количеством связанных подписок.
func (s *Service) List(ctx context.Context) ([]*models.CategoryView, error) {
	return s.repo.ListCategories(ctx)
}

// Update применяет частичное обновление категории: пустые поля запроса
// не изменяются.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req models.DummyCategory) (int, error) {
	category, err := s.repo.ReadCategory(ctx, id)
	if err != nil {
		return 0, err
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Color != "" {
		category.Color = req.Color
	}
	if req.Icon != "" {
		category.Icon = &req.Icon
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	return s.repo.UpdateCategory(ctx, *category)
}

// Remove удаляет категорию по ID и возвращает количество удалённых записей.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (int, error) {
	return s.repo.RemoveCategory(ctx, id)
}
