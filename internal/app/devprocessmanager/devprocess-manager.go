// Package devprocessmanager собирает все зависимости HTTP-сервиса:
// хранилище, миграции, кеш, брокер событий, бизнес-сервисы и роутер.
package devprocessmanager

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/devprocess-manager/internal/cache"
	"github.com/magabrotheeeer/devprocess-manager/internal/config"
	"github.com/magabrotheeeer/devprocess-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/devprocess-manager/internal/migrations"
	"github.com/magabrotheeeer/devprocess-manager/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/devprocess-manager/internal/services/auth"
	clientservice "github.com/magabrotheeeer/devprocess-manager/internal/services/client"
	projectservice "github.com/magabrotheeeer/devprocess-manager/internal/services/project"
	userservice "github.com/magabrotheeeer/devprocess-manager/internal/services/user"
	"github.com/magabrotheeeer/devprocess-manager/internal/storage/repository"
)

// App держит HTTP-сервер и внешние соединения, которые нужно закрыть при остановке.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	amqpConn *amqp.Connection
}

// New собирает приложение: подключается к PostgreSQL, применяет миграции,
// поднимает Redis и RabbitMQ, создает сервисы и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitConnectionString, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(amqpConn, []rabbitmq.QueueConfig{rabbitmq.UserRegisteredQueue})
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.Issuer, cfg.Audience, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, publisher, logger)
	clientService := clientservice.NewClientService(db, cacheRedis, logger)
	projectService := projectservice.NewProjectService(db, cacheRedis, logger)
	userService := userservice.NewUserService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, clientService, projectService, userService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		cache:    cacheRedis,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		_ = a.cache.DB.Close()
		_ = a.amqpConn.Close()
		return err
	}
}
