package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/passport/core/tag"
	"github.com/kochabx/passport/log"
)

func bufferLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(log.WithWriter(&buf), log.WithLevel(zerolog.DebugLevel)), &buf
}

func TestPathMatcher(t *testing.T) {
	pm := NewPathMatcher([]string{"/healthz", "/auth/**", "/api/*/sessions"})

	for _, p := range []string{"/healthz", "/auth", "/auth/token", "/auth/a/b", "/api/v1/sessions"} {
		assert.True(t, pm.Match(p), p)
	}
	for _, p := range []string{"/health", "/authx", "/api/v1/v2/sessions", "/"} {
		assert.False(t, pm.Match(p), p)
	}

	var nilMatcher *PathMatcher
	assert.False(t, nilMatcher.Match("/healthz"))
}

func TestRecovery(t *testing.T) {
	logger, buf := bufferLogger()

	r := gin.New()
	r.Use(Recovery(RecoveryConfig{Logger: logger}))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":500,"message":"internal server error"}`, w.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
	assert.NotContains(t, buf.String(), "secret-token")
}

func TestLogger(t *testing.T) {
	logger, buf := bufferLogger()

	r := gin.New()
	r.Use(Logger(LoggerConfig{Logger: logger, Header: true, SkipPaths: []string{"/healthz"}}))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/denied", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	req.Header.Set("X-Request-Id", "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "/ok", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.NotContains(t, buf.String(), "secret-token")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/denied", nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, buf.String())
}

func TestCors(t *testing.T) {
	var cfg CorsConfig
	require.NoError(t, tag.ApplyDefaults(&cfg))
	cfg.AllowOrigins = []string{"https://app.example.com", "*.example.org"}

	r := gin.New()
	r.Use(Cors(cfg))
	r.POST("/auth/token", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/auth/token", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/auth/token", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodPost, "/auth/token", nil)
	req.Header.Set("Origin", "https://login.example.org")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://login.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/auth/token", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsWildcard(t *testing.T) {
	r := gin.New()
	r.Use(Cors(CorsConfig{AllowOrigins: []string{"*"}}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://anywhere.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
