// Package services содержит бизнес-логику для управления пользователями.
//
// В отличие от клиентов и проектов сервис пользователей хэширует пароли
// и наружу отдает только проекцию models.UserInfo без хэша.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/devprocess-manager/internal/lib/password"
	"github.com/magabrotheeeer/devprocess-manager/internal/models"
)

// cacheTTL время жизни кешированной записи.
const cacheTTL = time.Hour

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// RegisterUser добавляет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUser возвращает пользователя по UID или repository.ErrNotFound.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// ListUsers возвращает страницу пользователей в порядке вставки.
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, error)
	// CountUsers возвращает общее количество пользователей.
	CountUsers(ctx context.Context) (int64, error)
	// UpdateUser частично обновляет пользователя; пароль принимается как хэш.
	UpdateUser(ctx context.Context, uid string, email, passwordHash, role *string) (*models.User, error)
	// RemoveUser удаляет пользователя и возвращает количество удалённых записей.
	RemoveUser(ctx context.Context, uid string) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// UserService реализует бизнес-логику работы с пользователями.
type UserService struct {
	repo  UserRepository
	cache Cache
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, cache Cache, log *slog.Logger) *UserService {
	return &UserService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает нового пользователя: хэширует пароль, присваивает свежий UID
// и возвращает его. Открытый пароль в хранилище не попадает.
func (s *UserService) Create(ctx context.Context, req models.DummyUser) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		UID:          uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
	}
	uid, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}
	s.log.Info("created new user", slog.String("uid", uid))
	return uid, nil
}

// Read возвращает проекцию пользователя по UID, используя кеш или репозиторий.
func (s *UserService) Read(ctx context.Context, uid string) (*models.UserInfo, error) {
	var cached *models.UserInfo
	cacheKey := userCacheKey(uid)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	user, err := s.repo.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	info := user.Info()
	if err := s.cache.Set(cacheKey, info, cacheTTL); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return info, nil
}

// List возвращает страницу проекций пользователей вместе с общим количеством записей.
func (s *UserService) List(ctx context.Context, page, pageSize int) (*models.PaginatedResult[models.UserInfo], error) {
	if page < 1 {
		page = models.DefaultPage
	}
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}

	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	items := make([]models.UserInfo, 0, len(users))
	for i := range users {
		items = append(items, *users[i].Info())
	}
	return &models.PaginatedResult[models.UserInfo]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

// Update частично обновляет пользователя и инвалидирует кеш.
// Новый пароль, если он передан, хэшируется перед записью.
func (s *UserService) Update(ctx context.Context, uid string, req models.DummyUserUpdate) (*models.UserInfo, error) {
	var passwordHash *string
	if req.Password != nil {
		hashed, err := password.GetHash(*req.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hashed
	}
	user, err := s.repo.UpdateUser(ctx, uid, req.Email, passwordHash, req.Role)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(userCacheKey(uid)); err != nil {
		s.log.Warn("failed to invalidate user cache", slog.String("uid", uid), slog.Any("err", err))
	}
	return user.Info(), nil
}

// Remove удаляет пользователя по UID и инвалидирует кеш.
// Возвращает false без ошибки, если пользователя уже нет.
func (s *UserService) Remove(ctx context.Context, uid string) (bool, error) {
	if err := s.cache.Invalidate(userCacheKey(uid)); err != nil {
		s.log.Warn("failed to invalidate user cache", slog.String("uid", uid), slog.Any("err", err))
	}
	count, err := s.repo.RemoveUser(ctx, uid)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func userCacheKey(uid string) string {
	return fmt.Sprintf("user:%s", uid)
}
