package devprocessmanager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/devprocess-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/devprocess-manager/internal/models"
	"github.com/magabrotheeeer/devprocess-manager/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/devprocess-manager/internal/services/auth"
	clientservice "github.com/magabrotheeeer/devprocess-manager/internal/services/client"
	projectservice "github.com/magabrotheeeer/devprocess-manager/internal/services/project"
	userservice "github.com/magabrotheeeer/devprocess-manager/internal/services/user"
	"github.com/magabrotheeeer/devprocess-manager/internal/storage/repository"
)

const (
	testSecretKey = "test-secret-key-with-enough-length-123456"
	testIssuer    = "devprocess-manager-test"
	testAudience  = "devprocess-api-test"
)

// memStore — хранилище в памяти, реализующее репозитории всех сервисов.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User   // по uid
	clients  map[string]models.Client // по uid
	projects map[string]models.Project
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]models.User{},
		clients:  map[string]models.Client{},
		projects: map[string]models.Project{},
	}
}

func (m *memStore) nextCreatedAt() time.Time {
	m.seq++
	return time.Unix(int64(1700000000+m.seq), 0)
}

func (m *memStore) RegisterUser(_ context.Context, user models.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return "", fmt.Errorf("duplicate username %s", user.Username)
		}
	}
	user.CreatedAt = m.nextCreatedAt()
	m.users[user.UID] = user
	return user.UID, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) ListUsers(_ context.Context, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return pageOf(all, limit, offset), nil
}

func (m *memStore) CountUsers(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memStore) UpdateUser(_ context.Context, uid string, email, passwordHash, role *string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if email != nil {
		u.Email = *email
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if role != nil {
		u.Role = *role
	}
	m.users[uid] = u
	return &u, nil
}

func (m *memStore) RemoveUser(_ context.Context, uid string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[uid]; !ok {
		return 0, nil
	}
	delete(m.users, uid)
	return 1, nil
}

func (m *memStore) CreateClient(_ context.Context, client models.Client) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	client.CreatedAt = m.nextCreatedAt()
	m.clients[client.UID] = client
	return client.UID, nil
}

func (m *memStore) GetClient(_ context.Context, uid string) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) ListClients(_ context.Context, limit, offset int) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return pageOf(all, limit, offset), nil
}

func (m *memStore) CountClients(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.clients)), nil
}

func (m *memStore) UpdateClient(_ context.Context, uid string, upd models.DummyClientUpdate) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Notes != nil {
		c.Notes = *upd.Notes
	}
	m.clients[uid] = c
	return &c, nil
}

func (m *memStore) RemoveClient(_ context.Context, uid string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[uid]; !ok {
		return 0, nil
	}
	delete(m.clients, uid)
	return 1, nil
}

func (m *memStore) CreateProject(_ context.Context, project models.Project) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	project.CreatedAt = m.nextCreatedAt()
	m.projects[project.UID] = project
	return project.UID, nil
}

func (m *memStore) GetProject(_ context.Context, uid string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) ListProjects(_ context.Context, limit, offset int) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.Project, 0, len(m.projects))
	for _, p := range m.projects {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return pageOf(all, limit, offset), nil
}

func (m *memStore) CountProjects(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.projects)), nil
}

func (m *memStore) UpdateProject(_ context.Context, uid string, upd models.DummyProjectUpdate) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.ClientUID != nil {
		p.ClientUID = upd.ClientUID
	}
	m.projects[uid] = p
	return &p, nil
}

func (m *memStore) RemoveProject(_ context.Context, uid string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[uid]; !ok {
		return 0, nil
	}
	delete(m.projects, uid)
	return 1, nil
}

func pageOf[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// noopCache никогда не находит значения и молча принимает записи.
type noopCache struct{}

func (noopCache) Get(string, any) (bool, error)        { return false, nil }
func (noopCache) Set(string, any, time.Duration) error { return nil }
func (noopCache) Invalidate(string) error              { return nil }

// noopPublisher проглатывает события.
type noopPublisher struct{}

func (noopPublisher) PublishUserRegistered(rabbitmq.UserRegisteredEvent) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	store := newMemStore()
	maker := jwt.NewJWTMaker(testSecretKey, testIssuer, testAudience, time.Hour)

	authService := authservice.NewAuthService(store, maker, noopPublisher{}, logger)
	clientService := clientservice.NewClientService(store, noopCache{}, logger)
	projectService := projectservice.NewProjectService(store, noopCache{}, logger)
	userService := userservice.NewUserService(store, noopCache{}, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, clientService, projectService, userService)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	var decoded map[string]any
	err = json.NewDecoder(resp.Body).Decode(&decoded)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	return resp, decoded
}

func TestAPI_RegisterLoginAndProtectedFlow(t *testing.T) {
	srv := newTestServer(t)

	// без токена защищенные маршруты закрыты
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/clients", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// регистрация
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK", body["status"])

	// вход
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	token := data["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, models.RoleMember, data["role"])

	// создание клиента под токеном
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/clients", token, map[string]string{
		"name":  "Acme Corp",
		"email": "contact@acme.test",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	clientUID := body["data"].(map[string]any)["uid"].(string)

	// листинг видит созданную запись
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/clients?page=1&page_size=10", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body["data"].(map[string]any)
	assert.Equal(t, float64(1), page["total_count"])

	// чтение, обновление, удаление
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/clients/"+clientUID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/v1/clients/"+clientUID, token, map[string]string{
		"name": "Acme Ltd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := body["data"].(map[string]any)
	assert.Equal(t, "Acme Ltd", updated["name"])
	// email не передавался и не изменился
	assert.Equal(t, "contact@acme.test", updated["email"])

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/clients/"+clientUID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["deleted"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/clients/"+clientUID, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_RejectsBadTokens(t *testing.T) {
	srv := newTestServer(t)

	// регистрируем пользователя, чтобы получить валидный токен для сравнения
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "bob",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["data"].(map[string]any)["token"].(string)

	// испорченный токен
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/clients", token+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// просроченный токен, подписанный тем же ключом
	expiredMaker := jwt.NewJWTMaker(testSecretKey, testIssuer, testAudience, -time.Minute)
	expired, err := expiredMaker.GenerateToken("bob", models.RoleMember, "uid-1")
	require.NoError(t, err)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/clients", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// токен с чужим issuer
	foreignMaker := jwt.NewJWTMaker(testSecretKey, "other-issuer", testAudience, time.Hour)
	foreign, err := foreignMaker.GenerateToken("bob", models.RoleMember, "uid-1")
	require.NoError(t, err)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/clients", foreign, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// неверные учетные данные при входе: оба случая дают 401
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "ghost",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "bob",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
