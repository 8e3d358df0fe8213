// Package services содержит бизнес-логику для управления проектами и кешированием.
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

// ProjectRepository определяет методы для работы с проектами в хранилище.
type ProjectRepository interface {
	// CreateProject добавляет новый проект и возвращает его UID.
	CreateProject(ctx context.Context, project models.Project) (string, error)
	// GetProject возвращает проект по UID или repository.ErrNotFound.
	GetProject(ctx context.Context, uid string) (*models.Project, error)
	// ListProjects возвращает страницу проектов в порядке вставки.
	ListProjects(ctx context.Context, limit, offset int) ([]models.Project, error)
	// CountProjects возвращает общее количество проектов.
	CountProjects(ctx context.Context) (int64, error)
	// UpdateProject частично обновляет проект по UID.
	UpdateProject(ctx context.Context, uid string, upd models.DummyProjectUpdate) (*models.Project, error)
	// RemoveProject удаляет проект и возвращает количество удалённых записей.
	RemoveProject(ctx context.Context, uid string) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ProjectService реализует бизнес-логику работы с проектами, включая кеширование.
type ProjectService struct {
	repo  ProjectRepository
	cache Cache
	log   *slog.Logger
}

// NewProjectService создает новый экземпляр ProjectService.
func NewProjectService(repo ProjectRepository, cache Cache, log *slog.Logger) *ProjectService {
	return &ProjectService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новый проект со свежим UID и возвращает его.
// Пустой статус трактуется как active.
func (s *ProjectService) Create(ctx context.Context, req models.DummyProject) (string, error) {
	status := req.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	project := models.Project{
		UID:         uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		ClientUID:   req.ClientUID,
	}
	uid, err := s.repo.CreateProject(ctx, project)
	if err != nil {
		return "", err
	}
	s.log.Info("created new project", slog.String("uid", uid))
	return uid, nil
}

// Read возвращает проект по UID, используя кеш или репозиторий.
func (s *ProjectService) Read(ctx context.Context, uid string) (*models.Project, error) {
	var cached *models.Project
	cacheKey := projectCacheKey(uid)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	project, err := s.repo.GetProject(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, project, cacheTTL); err != nil {
		s.log.Warn("failed to cache project", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return project, nil
}

// List возвращает страницу проектов вместе с общим количеством записей.
func (s *ProjectService) List(ctx context.Context, page, pageSize int) (*models.PaginatedResult[models.Project], error) {
	if page < 1 {
		page = models.DefaultPage
	}
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}

	total, err := s.repo.CountProjects(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListProjects(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Project{}
	}
	return &models.PaginatedResult[models.Project]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

// Update частично обновляет проект и инвалидирует кеш.
func (s *ProjectService) Update(ctx context.Context, uid string, req models.DummyProjectUpdate) (*models.Project, error) {
	project, err := s.repo.UpdateProject(ctx, uid, req)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(projectCacheKey(uid)); err != nil {
		s.log.Warn("failed to invalidate project cache", slog.String("uid", uid), slog.Any("err", err))
	}
	return project, nil
}

// Remove удаляет проект по UID и инвалидирует кеш.
// Возвращает false без ошибки, если проекта уже нет.
func (s *ProjectService) Remove(ctx context.Context, uid string) (bool, error) {
	if err := s.cache.Invalidate(projectCacheKey(uid)); err != nil {
		s.log.Warn("failed to invalidate project cache", slog.String("uid", uid), slog.Any("err", err))
	}
	count, err := s.repo.RemoveProject(ctx, uid)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func projectCacheKey(uid string) string {
	return fmt.Sprintf("project:%s", uid)
}
