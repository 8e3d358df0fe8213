// Package services содержит бизнес-логику для управления клиентами и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/devprocess-manager/internal/models"
)

// cacheTTL время жизни кешированной записи.
const cacheTTL = time.Hour

// ClientRepository определяет методы для работы с клиентами в хранилище.
type ClientRepository interface {
	// CreateClient добавляет нового клиента и возвращает его UID.
	CreateClient(ctx context.Context, client models.Client) (string, error)
	// GetClient возвращает клиента по UID или repository.ErrNotFound.
	GetClient(ctx context.Context, uid string) (*models.Client, error)
	// ListClients возвращает страницу клиентов в порядке вставки.
	ListClients(ctx context.Context, limit, offset int) ([]models.Client, error)
	// CountClients возвращает общее количество клиентов.
	CountClients(ctx context.Context) (int64, error)
	// UpdateClient частично обновляет клиента по UID.
	UpdateClient(ctx context.Context, uid string, upd models.DummyClientUpdate) (*models.Client, error)
	// RemoveClient удаляет клиента и возвращает количество удалённых записей.
	RemoveClient(ctx context.Context, uid string) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ClientService реализует бизнес-логику работы с клиентами, включая кеширование.
type ClientService struct {
	repo  ClientRepository
	cache Cache
	log   *slog.Logger
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, cache Cache, log *slog.Logger) *ClientService {
	return &ClientService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает нового клиента со свежим UID и возвращает его.
func (s *ClientService) Create(ctx context.Context, req models.DummyClient) (string, error) {
	client := models.Client{
		UID:   uuid.New().String(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}
	uid, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return "", err
	}
	s.log.Info("created new client", slog.String("uid", uid))
	return uid, nil
}

// Read возвращает клиента по UID, используя кеш или репозиторий.
func (s *ClientService) Read(ctx context.Context, uid string) (*models.Client, error) {
	var cached *models.Client
	cacheKey := clientCacheKey(uid)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	client, err := s.repo.GetClient(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, client, cacheTTL); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return client, nil
}

// List возвращает страницу клиентов вместе с общим количеством записей.
//
// Количество и страница считаются двумя отдельными запросами к хранилищу,
// полная выборка в память не материализуется.
func (s *ClientService) List(ctx context.Context, page, pageSize int) (*models.PaginatedResult[models.Client], error) {
	if page < 1 {
		page = models.DefaultPage
	}
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}

	total, err := s.repo.CountClients(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListClients(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Client{}
	}
	return &models.PaginatedResult[models.Client]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

// Update частично обновляет клиента и инвалидирует кеш.
// Отсутствующий UID возвращает repository.ErrNotFound, новая запись не создается.
func (s *ClientService) Update(ctx context.Context, uid string, req models.DummyClientUpdate) (*models.Client, error) {
	client, err := s.repo.UpdateClient(ctx, uid, req)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(clientCacheKey(uid)); err != nil {
		s.log.Warn("failed to invalidate client cache", slog.String("uid", uid), slog.Any("err", err))
	}
	return client, nil
}

// Remove удаляет клиента по UID и инвалидирует кеш.
// Возвращает false без ошибки, если клиента уже нет.
func (s *ClientService) Remove(ctx context.Context, uid string) (bool, error) {
	if err := s.cache.Invalidate(clientCacheKey(uid)); err != nil {
		s.log.Warn("failed to invalidate client cache", slog.String("uid", uid), slog.Any("err", err))
	}
	count, err := s.repo.RemoveClient(ctx, uid)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func clientCacheKey(uid string) string {
	return fmt.Sprintf("client:%s", uid)
}
