// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/devprocess-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/devprocess-manager/internal/lib/password"
	"github.com/magabrotheeeer/devprocess-manager/internal/lib/sl"
	"github.com/magabrotheeeer/devprocess-manager/internal/models"
	"github.com/magabrotheeeer/devprocess-manager/internal/rabbitmq"
	"github.com/magabrotheeeer/devprocess-manager/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при любой ошибке входа.
//
// Неизвестный username и неверный пароль намеренно неразличимы
// для внешнего вызывающего.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или repository.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// EventPublisher описывает публикацию событий о регистрации пользователей.
type EventPublisher interface {
	PublishUserRegistered(event rabbitmq.UserRegisteredEvent) error
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	events   EventPublisher
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, events EventPublisher, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		events:   events,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "member".
// Открытый пароль отбрасывается сразу после хэширования.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		UID:          uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleMember, // дефолтная роль при регистрации
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}

	if err := s.events.PublishUserRegistered(rabbitmq.UserRegisteredEvent{
		UID:      uid,
		Username: username,
		Email:    email,
	}); err != nil {
		// регистрация уже состоялась, сбой публикации не должен её откатывать
		s.log.Warn("failed to publish user.registered event", sl.Err(err))
	}
	return uid, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
//
// Пустые учетные данные, неизвестный username и неверный пароль
// возвращают одинаковую ошибку ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(rawPassword) == "" {
		return "", "", ErrInvalidCredentials
	}
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает claims с username, ролью и uid пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
