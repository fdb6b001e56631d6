package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SamriekLeeuwin/righthand-ops-hub/db"
	"github.com/SamriekLeeuwin/righthand-ops-hub/forms"
	"github.com/SamriekLeeuwin/righthand-ops-hub/kv"
	"github.com/SamriekLeeuwin/righthand-ops-hub/middleware"
	"github.com/SamriekLeeuwin/righthand-ops-hub/models"
	"github.com/SamriekLeeuwin/righthand-ops-hub/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory db.Database for controller tests.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

var _ db.Database = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{users: map[int64]models.User{}}
}

func (m *memStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if err == db.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *memStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == strings.ToLower(strings.TrimSpace(email)) {
			return user, nil
		}
	}
	return models.User{}, db.ErrNotFound
}

func (m *memStore) FindByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return models.User{}, db.ErrNotFound
	}
	return user, nil
}

func (m *memStore) CreateUser(_ context.Context, user db.CreateUser) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	created := models.User{
		ID:        m.nextID,
		CreatedAt: time.Now().Unix(),
		Email:     strings.ToLower(strings.TrimSpace(user.Email)),
		Role:      user.Role,
		Password:  user.PwdHash,
	}
	m.users[created.ID] = created
	return created, nil
}

func (m *memStore) TouchLastLogin(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return db.ErrNotFound
	}
	user.LastLogin = time.Now().Unix()
	m.users[id] = user
	return nil
}

func (m *memStore) deleteUser(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func (m *memStore) ListProjects(context.Context, bool) ([]models.Project, error) { return nil, nil }
func (m *memStore) GetProject(context.Context, int64) (models.Project, error) {
	return models.Project{}, db.ErrNotFound
}
func (m *memStore) CreateProject(context.Context, db.CreateProject) (models.Project, error) {
	return models.Project{}, nil
}
func (m *memStore) DeleteProject(context.Context, int64) error { return db.ErrNotFound }
func (m *memStore) ListTasks(context.Context, int64) ([]models.Task, error) {
	return nil, nil
}
func (m *memStore) CreateTask(context.Context, db.CreateTask) (models.Task, error) {
	return models.Task{}, nil
}
func (m *memStore) UpdateTaskStatus(context.Context, int64, string) (models.Task, error) {
	return models.Task{}, db.ErrNotFound
}

// memKV is an in-memory kv.KeyValueStore, expiry ignored.
type memKV struct {
	mu       sync.Mutex
	counters map[string]int64
}

var _ kv.KeyValueStore = (*memKV)(nil)

func newMemKV() *memKV {
	return &memKV{counters: map[string]int64{}}
}

func (m *memKV) Incr(key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memKV) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.counters[key]; !ok {
		return "", db.ErrNotFound
	}
	return "1", nil
}

func (m *memKV) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counters, key)
	return nil
}

type authFixture struct {
	router *gin.Engine
	store  *memStore
}

// newAuthFixture wires the auth routes exactly as main does.
func newAuthFixture() *authFixture {
	gin.SetMode(gin.TestMode)
	binding.Validator = new(forms.DefaultValidator)

	store := newMemStore()
	authService := service.NewAuthService(service.AuthConfig{
		Secret: "controller-test-secret-key",
	}, store)
	userService := service.NewUserService(store, newMemKV(), authService, service.BcryptHasher{})

	requireAuth := middleware.RequireAuth(authService, store)

	user := NewUserController(userService)
	auth := NewAuthController(authService)

	r := gin.New()
	r.POST("/auth/register", user.Register)
	r.POST("/auth/login", user.Login)
	r.POST("/auth/refresh", auth.Refresh)
	r.GET("/auth/me", requireAuth, auth.Me)
	r.POST("/auth/logout", requireAuth, auth.Logout)

	return &authFixture{router: r, store: store}
}

func (fx *authFixture) do(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *strings.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = strings.NewReader(string(raw))
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func credentials(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password}
}

func TestRegisterPasswordBoundary(t *testing.T) {
	fx := newAuthFixture()

	w := fx.do(http.MethodPost, "/auth/register", "", credentials("ops@example.com", "12345"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(http.MethodPost, "/auth/register", "", credentials("ops@example.com", "123456"))
	require.Equal(t, http.StatusCreated, w.Code)

	body := parseBody(t, w)
	assert.NotEmpty(t, body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, "ops@example.com", user["email"])
	assert.Equal(t, models.RoleViewer, user["role"])
	assert.NotZero(t, user["createdAt"])
	assert.NotContains(t, user, "password")
}

func TestRegisterDuplicate(t *testing.T) {
	fx := newAuthFixture()

	require.Equal(t, http.StatusCreated,
		fx.do(http.MethodPost, "/auth/register", "", credentials("ops@example.com", "secret1")).Code)

	w := fx.do(http.MethodPost, "/auth/register", "", credentials("ops@example.com", "secret2"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email_taken", parseBody(t, w)["error"])
}

func TestLoginEnumerationResistance(t *testing.T) {
	fx := newAuthFixture()
	require.Equal(t, http.StatusCreated,
		fx.do(http.MethodPost, "/auth/register", "", credentials("ops@example.com", "secret1")).Code)

	wrongPwd := fx.do(http.MethodPost, "/auth/login", "", credentials("ops@example.com", "wrong-pass"))
	unknown := fx.do(http.MethodPost, "/auth/login", "", credentials("nobody@example.com", "secret1"))

	assert.Equal(t, http.StatusUnauthorized, wrongPwd.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	// identical body, nothing to enumerate accounts with
	assert.Equal(t, wrongPwd.Body.String(), unknown.Body.String())
}

func TestLoginResponseShape(t *testing.T) {
	fx := newAuthFixture()
	require.Equal(t, http.StatusCreated,
		fx.do(http.MethodPost, "/auth/register", "", credentials("ops@example.com", "secret1")).Code)

	w := fx.do(http.MethodPost, "/auth/login", "", credentials("ops@example.com", "secret1"))
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
	assert.Equal(t, float64(86400), body["expiresIn"])
	assert.Equal(t, models.TokenTypeBearer, body["tokenType"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "ops@example.com", user["email"])
	assert.NotZero(t, user["lastLogin"])
}

func TestMeAndLogout(t *testing.T) {
	fx := newAuthFixture()
	require.Equal(t, http.StatusCreated,
		fx.do(http.MethodPost, "/auth/register", "", credentials("ops@example.com", "secret1")).Code)

	login := parseBody(t, fx.do(http.MethodPost, "/auth/login", "", credentials("ops@example.com", "secret1")))
	accessToken := login["accessToken"].(string)
	refreshToken := login["refreshToken"].(string)

	w := fx.do(http.MethodGet, "/auth/me", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := parseBody(t, w)["user"].(map[string]any)
	assert.Equal(t, "ops@example.com", me["email"])

	// a refresh token is not a bearer credential for protected routes
	w = fx.do(http.MethodGet, "/auth/me", refreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", parseBody(t, w)["error"])

	// logout is advisory and says so
	w = fx.do(http.MethodPost, "/auth/logout", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, parseBody(t, w)["note"])

	// the token is still valid afterwards, by design
	w = fx.do(http.MethodGet, "/auth/me", accessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshRotation(t *testing.T) {
	fx := newAuthFixture()
	require.Equal(t, http.StatusCreated,
		fx.do(http.MethodPost, "/auth/register", "", credentials("ops@example.com", "secret1")).Code)

	login := parseBody(t, fx.do(http.MethodPost, "/auth/login", "", credentials("ops@example.com", "secret1")))

	w := fx.do(http.MethodPost, "/auth/refresh", "", map[string]string{
		"refreshToken": login["refreshToken"].(string),
	})
	require.Equal(t, http.StatusOK, w.Code)

	rotated := parseBody(t, w)
	assert.NotEqual(t, login["accessToken"], rotated["accessToken"])
	assert.NotEqual(t, login["refreshToken"], rotated["refreshToken"])
	assert.Equal(t, models.TokenTypeBearer, rotated["tokenType"])
}

func TestRefreshFailures(t *testing.T) {
	fx := newAuthFixture()
	require.Equal(t, http.StatusCreated,
		fx.do(http.MethodPost, "/auth/register", "", credentials("ops@example.com", "secret1")).Code)

	login := parseBody(t, fx.do(http.MethodPost, "/auth/login", "", credentials("ops@example.com", "secret1")))
	accessToken := login["accessToken"].(string)
	refreshToken := login["refreshToken"].(string)

	// garbage
	w := fx.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_refresh_token", parseBody(t, w)["error"])

	// an access token is not a refresh token
	w = fx.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": accessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// missing field
	w = fx.do(http.MethodPost, "/auth/refresh", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// user deleted between issue and refresh: no new tokens
	fx.store.deleteUser(1)
	w = fx.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": refreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, "invalid_refresh_token", body["error"])
	assert.NotContains(t, body, "accessToken")
}
