package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/passport/log"
	"github.com/kochabx/passport/transport/http/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	healthy := pingFunc(func(context.Context) error { return nil })
	broken := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	s := NewServer(":0", gin.New(),
		WithLogger(log.Nop()),
		WithHealth(HealthOption{Enabled: true}, map[string]Pinger{"redis": healthy}),
	)
	w := serve(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"redis":"ok"}}`, w.Body.String())

	s = NewServer(":0", gin.New(),
		WithLogger(log.Nop()),
		WithHealth(HealthOption{Enabled: true, Path: "/health"}, map[string]Pinger{"redis": healthy, "database": broken}),
	)
	w = serve(t, s, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"redis":"ok","database":"unavailable"}}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestMetrics(t *testing.T) {
	prom := metrics.New()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "passport_test_total", Help: "test"})
	prom.Registry().MustRegister(counter)
	counter.Inc()

	s := NewServer(":0", gin.New(),
		WithLogger(log.Nop()),
		WithMetrics(MetricsOption{Enabled: true, EnabledBuildInfoCollector: true}, prom),
	)
	w := serve(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "passport_test_total 1")
	assert.Contains(t, w.Body.String(), "go_build_info")
}

func TestDisabledEndpoints(t *testing.T) {
	s := NewServer(":0", gin.New(), WithLogger(log.Nop()))
	assert.Equal(t, http.StatusNotFound, serve(t, s, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, s, "/healthz").Code)
}

func TestRunShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	r := gin.New()
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	s := NewServer(addr, r, WithLogger(log.Nop()), WithMeta(Meta{Name: "test"}))

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-done)
}
