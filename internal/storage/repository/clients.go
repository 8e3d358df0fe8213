package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/devprocess-manager/internal/models"
)

// CreateClient сохраняет нового клиента в базу данных и возвращает его UID.
func (s *Storage) CreateClient(ctx context.Context, client models.Client) (string, error) {
	const op = "storage.CreateClient"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO clients (uid, name, email, phone, notes)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		client.UID, client.Name, client.Email, client.Phone, client.Notes).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetClient возвращает клиента по его UID.
func (s *Storage) GetClient(ctx context.Context, uid string) (*models.Client, error) {
	const op = "storage.GetClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, phone, notes, created_at
			  FROM clients
			  WHERE uid = $1`
	c := &models.Client{}
	row := s.DB.QueryRowContext(ctx, query, uid)
	if err := row.Scan(&c.UID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListClients возвращает страницу клиентов в порядке вставки.
func (s *Storage) ListClients(ctx context.Context, limit, offset int) ([]models.Client, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, phone, notes, created_at
			  FROM clients
			  ORDER BY created_at, uid
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Client
	for rows.Next() {
		var item models.Client
		if err := rows.Scan(&item.UID, &item.Name, &item.Email, &item.Phone,
			&item.Notes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountClients возвращает общее количество клиентов.
func (s *Storage) CountClients(ctx context.Context) (int64, error) {
	const op = "storage.CountClients"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// UpdateClient частично обновляет клиента: nil-поля остаются без изменений.
// Возвращает обновлённую запись или ErrNotFound, если клиента нет.
func (s *Storage) UpdateClient(ctx context.Context, uid string, upd models.DummyClientUpdate) (*models.Client, error) {
	const op = "storage.UpdateClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE clients
			  SET name = COALESCE($1, name),
			      email = COALESCE($2, email),
			      phone = COALESCE($3, phone),
			      notes = COALESCE($4, notes)
			  WHERE uid = $5
			  RETURNING uid, name, email, phone, notes, created_at`
	c := &models.Client{}
	row := s.DB.QueryRowContext(ctx, query, upd.Name, upd.Email, upd.Phone, upd.Notes, uid)
	if err := row.Scan(&c.UID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// RemoveClient удаляет клиента по UID и возвращает количество удалённых строк.
func (s *Storage) RemoveClient(ctx context.Context, uid string) (int64, error) {
	const op = "storage.RemoveClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM clients WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
