package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/passport/core/auth/ledger"
	"github.com/kochabx/passport/core/auth/password"
	"github.com/kochabx/passport/core/auth/principal"
	"github.com/kochabx/passport/core/auth/session"
	"github.com/kochabx/passport/transport/http/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	router *gin.Engine
	dir    *principal.Memory
	svc    *session.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	hasher := password.New(password.Params{MemoryKiB: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	dir := principal.NewMemory()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, err := session.New("test-secret", ledger.NewMemory(), dir,
		session.WithHasher(hasher),
		session.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	r := gin.New()
	a := auth.New(svc, nil)
	a.Register(r)
	New(dir, hasher, a.Authenticated(), nil).Register(r)
	return &env{router: r, dir: dir, svc: svc}
}

func (e *env) create(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) me(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code     int               `json:"code"`
	Message  string            `json:"message"`
	Data     map[string]any    `json:"data"`
	Metadata map[string]string `json:"metadata"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const validUser = `{"username":"testuser@example.com","password":"Pas5$word","full_name":"Test User"}`

func TestCreate(t *testing.T) {
	e := newEnv(t)

	w := e.create(validUser)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, 201, body.Code)
	assert.Equal(t, "testuser@example.com", body.Data["username"])
	assert.Equal(t, "Test User", body.Data["full_name"])
	assert.Equal(t, false, body.Data["is_superuser"])
	assert.NotEmpty(t, body.Data["id"])
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "argon2id")

	p, err := e.dir.GetByUsername(context.Background(), "testuser@example.com")
	require.NoError(t, err)
	assert.Equal(t, body.Data["id"], p.ID)
	assert.True(t, strings.HasPrefix(p.PasswordHash, "$argon2id$"))
}

func TestCreateDuplicate(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, http.StatusCreated, e.create(validUser).Code)

	w := e.create(validUser)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"code":409,"message":"User already exists"}`, w.Body.String())
}

func TestCreateWeakPassword(t *testing.T) {
	e := newEnv(t)

	w := e.create(`{"username":"testuser@example.com","password":"Passw0rd","full_name":"Test User"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Invalid password", body.Message)
	assert.Equal(t, "Password must contain at least one special character.", body.Metadata["password"])

	_, err := e.dir.GetByUsername(context.Background(), "testuser@example.com")
	assert.ErrorIs(t, err, principal.ErrNotFound)
}

func TestCreateInvalidBody(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, http.StatusBadRequest, e.create(`{`).Code)
	assert.Equal(t, http.StatusBadRequest, e.create(`{"username":"not-an-email","password":"Pas5$word","full_name":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, e.create(`{"username":"a@example.com","password":"Pas5$word"}`).Code)
}

func TestMe(t *testing.T) {
	e := newEnv(t)
	created := decode(t, e.create(validUser))

	sess, err := e.svc.Authenticate(context.Background(), "testuser@example.com", "Pas5$word")
	require.NoError(t, err)

	w := e.me(sess.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, created.Data["id"], body.Data["id"])
	assert.Equal(t, "testuser@example.com", body.Data["username"])
	assert.NotNil(t, body.Data["last_login"])
	assert.NotContains(t, w.Body.String(), "argon2id")

	assert.Equal(t, http.StatusUnauthorized, e.me("").Code)
	assert.Equal(t, http.StatusUnauthorized, e.me(sess.RefreshToken).Code)

	require.NoError(t, e.svc.RevokeSession(context.Background(), sess.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, e.me(sess.AccessToken).Code)
}
