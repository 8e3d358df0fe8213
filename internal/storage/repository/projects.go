package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/devprocess-manager/internal/models"
)

// CreateProject сохраняет новый проект в базу данных и возвращает его UID.
func (s *Storage) CreateProject(ctx context.Context, project models.Project) (string, error) {
	const op = "storage.CreateProject"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO projects (uid, name, description, status, client_uid)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		project.UID, project.Name, project.Description, project.Status,
		project.ClientUID).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetProject возвращает проект по его UID.
func (s *Storage) GetProject(ctx context.Context, uid string) (*models.Project, error) {
	const op = "storage.GetProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, status, client_uid, created_at
			  FROM projects
			  WHERE uid = $1`
	p := &models.Project{}
	var clientUID sql.NullString
	row := s.DB.QueryRowContext(ctx, query, uid)
	if err := row.Scan(&p.UID, &p.Name, &p.Description, &p.Status, &clientUID, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if clientUID.Valid {
		p.ClientUID = &clientUID.String
	}
	return p, nil
}

// ListProjects возвращает страницу проектов в порядке вставки.
func (s *Storage) ListProjects(ctx context.Context, limit, offset int) ([]models.Project, error) {
	const op = "storage.ListProjects"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, status, client_uid, created_at
			  FROM projects
			  ORDER BY created_at, uid
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Project
	for rows.Next() {
		var item models.Project
		var clientUID sql.NullString
		if err := rows.Scan(&item.UID, &item.Name, &item.Description, &item.Status,
			&clientUID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if clientUID.Valid {
			item.ClientUID = &clientUID.String
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountProjects возвращает общее количество проектов.
func (s *Storage) CountProjects(ctx context.Context) (int64, error) {
	const op = "storage.CountProjects"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// UpdateProject частично обновляет проект: nil-поля остаются без изменений.
// Возвращает обновлённую запись или ErrNotFound, если проекта нет.
func (s *Storage) UpdateProject(ctx context.Context, uid string, upd models.DummyProjectUpdate) (*models.Project, error) {
	const op = "storage.UpdateProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE projects
			  SET name = COALESCE($1, name),
			      description = COALESCE($2, description),
			      status = COALESCE($3, status),
			      client_uid = COALESCE($4, client_uid)
			  WHERE uid = $5
			  RETURNING uid, name, description, status, client_uid, created_at`
	p := &models.Project{}
	var clientUID sql.NullString
	row := s.DB.QueryRowContext(ctx, query, upd.Name, upd.Description, upd.Status, upd.ClientUID, uid)
	if err := row.Scan(&p.UID, &p.Name, &p.Description, &p.Status, &clientUID, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if clientUID.Valid {
		p.ClientUID = &clientUID.String
	}
	return p, nil
}

// RemoveProject удаляет проект по UID и возвращает количество удалённых строк.
func (s *Storage) RemoveProject(ctx context.Context, uid string) (int64, error) {
	const op = "storage.RemoveProject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM projects WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
