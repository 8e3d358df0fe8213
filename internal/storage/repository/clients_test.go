package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/devprocess-manager/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Storage{DB: db}, mock
}

func TestStorage_CreateClient(t *testing.T) {
	storage, mock := newMockStorage(t)

	client := models.Client{
		UID:   "uid-1",
		Name:  "Acme Corp",
		Email: "contact@acme.test",
	}

	mock.ExpectQuery(`INSERT INTO clients`).
		WithArgs(client.UID, client.Name, client.Email, client.Phone, client.Notes).
		WillReturnRows(sqlmock.NewRows([]string{"uid"}).AddRow("uid-1"))

	uid, err := storage.CreateClient(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetClient(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT uid, name, email, phone, notes, created_at\s+FROM clients\s+WHERE uid = \$1`).
		WithArgs("uid-1").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "name", "email", "phone", "notes", "created_at"}).
			AddRow("uid-1", "Acme Corp", "contact@acme.test", "", "", now))

	client, err := storage.GetClient(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", client.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetClient_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT uid, name, email, phone, notes, created_at\s+FROM clients`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "name", "email", "phone", "notes", "created_at"}))

	_, err := storage.GetClient(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListClients(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT uid, name, email, phone, notes, created_at\s+FROM clients\s+ORDER BY created_at, uid\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "name", "email", "phone", "notes", "created_at"}).
			AddRow("uid-1", "Acme Corp", "", "", "", now).
			AddRow("uid-2", "Globex", "", "", "", now))

	clients, err := storage.ListClients(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Globex", clients[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CountClients(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM clients`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	total, err := storage.CountClients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}

func TestStorage_UpdateClient_PartialFields(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	newName := "Acme Ltd"
	mock.ExpectQuery(`UPDATE clients`).
		WithArgs(&newName, nil, nil, nil, "uid-1").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "name", "email", "phone", "notes", "created_at"}).
			AddRow("uid-1", newName, "old@acme.test", "", "", now))

	client, err := storage.UpdateClient(context.Background(), "uid-1",
		models.DummyClientUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, client.Name)
	assert.Equal(t, "old@acme.test", client.Email)
}

func TestStorage_UpdateClient_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`UPDATE clients`).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "name", "email", "phone", "notes", "created_at"}))

	_, err := storage.UpdateClient(context.Background(), "missing", models.DummyClientUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_RemoveClient(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec(`DELETE FROM clients WHERE uid = \$1`).
		WithArgs("uid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM clients WHERE uid = \$1`).
		WithArgs("uid-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	count, err := storage.RemoveClient(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = storage.RemoveClient(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestStorage_CancelledContext(t *testing.T) {
	storage, _ := newMockStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.GetClient(ctx, "uid-1")
	assert.ErrorIs(t, err, context.Canceled)
}
