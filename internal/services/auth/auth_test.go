package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	jwtlib "github.com/magabrotheeeer/devprocess-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/devprocess-manager/internal/lib/password"
	"github.com/magabrotheeeer/devprocess-manager/internal/models"
	"github.com/magabrotheeeer/devprocess-manager/internal/rabbitmq"
	"github.com/magabrotheeeer/devprocess-manager/internal/storage/repository"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishUserRegistered(event rabbitmq.UserRegisteredEvent) error {
	return m.Called(event).Error(0)
}

type JWTMakerMock struct{ mock.Mock }

func (m *JWTMakerMock) GenerateToken(username, role, useruid string) (string, error) {
	args := m.Called(username, role, useruid)
	return args.String(0), args.Error(1)
}

func (m *JWTMakerMock) ParseToken(token string) (*jwtlib.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwtlib.CustomClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(UserRepoMock)
	pub := new(PublisherMock)
	maker := new(JWTMakerMock)
	svc := NewAuthService(repo, maker, pub, newNoopLogger())

	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		// пароль должен быть захэширован, роль — member по умолчанию
		return u.Username == "alice" &&
			u.Role == models.RoleMember &&
			u.PasswordHash != "secret123" &&
			password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return("uid-1", nil).Once()
	pub.On("PublishUserRegistered", rabbitmq.UserRegisteredEvent{
		UID:      "uid-1",
		Username: "alice",
		Email:    "alice@example.com",
	}).Return(nil).Once()

	uid, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestAuthService_Register_PublishFailureIsNotFatal(t *testing.T) {
	repo := new(UserRepoMock)
	pub := new(PublisherMock)
	maker := new(JWTMakerMock)
	svc := NewAuthService(repo, maker, pub, newNoopLogger())

	repo.On("RegisterUser", mock.Anything, mock.Anything).Return("uid-2", nil).Once()
	pub.On("PublishUserRegistered", mock.Anything).Return(errors.New("broker down")).Once()

	uid, err := svc.Register(context.Background(), "bob", "bob@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-2", uid)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	storedUser := &models.User{
		UID:          "uid-1",
		Username:     "alice",
		PasswordHash: hash,
		Role:         models.RoleMember,
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock, j *JWTMakerMock)
		wantToken  string
		wantRole   string
		wantErr    error
	}{
		{
			name:     "success login",
			username: "alice",
			password: "secret123",
			setupMocks: func(r *UserRepoMock, j *JWTMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(storedUser, nil).Once()
				j.On("GenerateToken", "alice", models.RoleMember, "uid-1").Return("tok", nil).Once()
			},
			wantToken: "tok",
			wantRole:  models.RoleMember,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "secret123",
			setupMocks: func(r *UserRepoMock, _ *JWTMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong-pass",
			setupMocks: func(r *UserRepoMock, _ *JWTMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(storedUser, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:       "blank credentials",
			username:   "   ",
			password:   "secret123",
			setupMocks: func(_ *UserRepoMock, _ *JWTMakerMock) {},
			wantErr:    ErrInvalidCredentials,
		},
		{
			name:     "storage failure is not masked",
			username: "alice",
			password: "secret123",
			setupMocks: func(r *UserRepoMock, _ *JWTMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(nil, errors.New("db down")).Once()
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			maker := new(JWTMakerMock)
			tt.setupMocks(repo, maker)
			svc := NewAuthService(repo, maker, new(PublisherMock), newNoopLogger())

			token, role, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidCredentials) {
					assert.ErrorIs(t, err, ErrInvalidCredentials)
				}
				assert.Empty(t, token)
				assert.Empty(t, role)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, tt.wantRole, role)
			}

			repo.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

// TestAuthService_Login_FailuresAreIndistinguishable проверяет, что неизвестный
// пользователь и неверный пароль дают одну и ту же ошибку.
func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	repo := new(UserRepoMock)
	repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound).Once()
	repo.On("GetUserByUsername", mock.Anything, "alice").Return(&models.User{
		UID:          "uid-1",
		Username:     "alice",
		PasswordHash: hash,
		Role:         models.RoleMember,
	}, nil).Once()

	svc := NewAuthService(repo, new(JWTMakerMock), new(PublisherMock), newNoopLogger())

	_, _, errUnknown := svc.Login(context.Background(), "ghost", "whatever1")
	_, _, errWrongPass := svc.Login(context.Background(), "alice", "whatever1")

	assert.Equal(t, errUnknown, errWrongPass)
}
