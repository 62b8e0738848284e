package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/repository"
	"github.com/besufkad2328-dev/SEED/internal/store"
)

const telegramKeyPrefix = store.DefaultKey + ":tg:"

// StateKey - ключ состояния Telegram-пользователя
func StateKey(telegramID int64) string {
	return telegramKeyPrefix + strconv.FormatInt(telegramID, 10)
}

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// EnsureTelegramUser - получить пользователя или создать при первом обращении
func (s *UserService) EnsureTelegramUser(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user, err := s.repo.FindByTelegramID(ctx, dto.TelegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user %d: %w", dto.TelegramID, err)
	}

	created, err := s.repo.Create(ctx, &models.User{
		TelegramID: dto.TelegramID,
		Username:   dto.Username,
		FirstName:  dto.FirstName,
		LastName:   dto.LastName,
		StateKey:   StateKey(dto.TelegramID),
		Role:       "user",
	})
	if err != nil {
		// параллельный запрос мог создать пользователя раньше
		if user, findErr := s.repo.FindByTelegramID(ctx, dto.TelegramID); findErr == nil {
			return user, nil
		}
		return nil, fmt.Errorf("create user %d: %w", dto.TelegramID, err)
	}
	return created, nil
}

// GetUserByTelegramID - получить пользователя по Telegram ID
func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.repo.FindByTelegramID(ctx, telegramID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// Count - количество пользователей
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// GetAllUsers - все пользователи
func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.FindAll(ctx)
}
