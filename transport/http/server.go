package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kochabx/passport/log"
	"github.com/kochabx/passport/transport"
	"github.com/kochabx/passport/transport/http/metrics"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultName = "http"
	defaultAddr = ":8080"
)

type Server struct {
	meta   Meta
	server *http.Server
	logger *log.Logger

	metrics MetricsOption
	prom    *metrics.Prometheus
	health  HealthOption
	deps    map[string]Pinger
}

// NewServer 创建 HTTP 服务，handler 为 *gin.Engine 时挂载指标与健康检查端点
func NewServer(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		meta: Meta{Name: defaultName},
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: log.G,
	}
	for _, opt := range opts {
		opt(s)
	}

	if r, ok := handler.(*gin.Engine); ok {
		s.handleMetrics(r)
		s.handleHealth(r)
	}
	return s
}

// Handler 返回根处理器
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Run() error {
	if !transport.ValidateAddress(s.server.Addr) {
		s.logger.Warn().Msgf("invalid address %q, using default address %s", s.server.Addr, defaultAddr)
		s.server.Addr = defaultAddr
	}
	s.logger.Info().Msgf("%s server listening on %s", s.meta.Name, s.server.Addr)

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleMetrics(r *gin.Engine) {
	if !s.metrics.Enabled {
		return
	}
	if s.prom == nil {
		s.prom = metrics.New()
	}
	if s.metrics.EnabledGoCollector {
		s.prom.WithGoCollectorRuntimeMetrics()
	}
	if s.metrics.EnabledBuildInfoCollector {
		s.prom.WithBuildInfoCollector()
	}

	r.GET(s.metrics.Path, gin.WrapH(promhttp.HandlerFor(s.prom.Registry(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})))
}

func (s *Server) handleHealth(r *gin.Engine) {
	if !s.health.Enabled {
		return
	}

	r.GET(s.health.Path, func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.health.Timeout)
		defer cancel()

		status, checks := http.StatusOK, make(map[string]string, len(s.deps))
		for name, dep := range s.deps {
			if err := dep.Ping(ctx); err != nil {
				s.logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
				checks[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	})
}
