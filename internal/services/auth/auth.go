// Package auth содержит бизнес-логику аутентификации: вход по паролю
// с выдачей JWT и смену пароля.
package auth

import (
	"context"
	"errors"
	"log/slog"

	jwtlib "github.com/subtracker/subtracker/internal/lib/jwt"
	"github.com/subtracker/subtracker/internal/lib/password"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль,
// не раскрывая, что именно не совпало.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, username, passwordHash string) (int, error)
}

// Service реализует аутентификацию владельца сервиса.
type Service struct {
	repo     UserRepository
	jwtMaker jwtlib.Maker
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo UserRepository, jwtMaker jwtlib.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Login проверяет пару логин/пароль и возвращает подписанный JWT.
func (s *Service) Login(ctx context.Context, username, pass string) (string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, pass); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.Username)
	if err != nil {
		return "", err
	}
	s.log.Info("login success", slog.String("username", username))
	return token, nil
}

// Me возвращает учётную запись текущего пользователя.
func (s *Service) Me(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

// ChangePassword меняет пароль пользователя после проверки старого.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.repo.UpdateUserPassword(ctx, username, hash); err != nil {
		return err
	}
	s.log.Info("password changed", slog.String("username", username))
	return nil
}
