package http

import (
	"context"
	"time"

	"github.com/kochabx/passport/core/tag"
	"github.com/kochabx/passport/log"
	"github.com/kochabx/passport/transport/http/metrics"
)

// Option 服务选项
type Option func(*Server)

// Meta 服务元数据
type Meta struct {
	Name string
}

// MetricsOption 指标端点配置
type MetricsOption struct {
	Enabled                   bool   `json:"enabled" mapstructure:"enabled"`
	Path                      string `json:"path" mapstructure:"path" default:"/metrics"`
	EnabledGoCollector        bool   `json:"enabled_go_collector" mapstructure:"enabled_go_collector"`
	EnabledBuildInfoCollector bool   `json:"enabled_build_info_collector" mapstructure:"enabled_build_info_collector"`
}

// HealthOption 健康检查端点配置
type HealthOption struct {
	Enabled bool          `json:"enabled" mapstructure:"enabled"`
	Path    string        `json:"path" mapstructure:"path" default:"/healthz"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout" default:"2s"`
}

// Pinger 健康检查依赖，如 Redis 与数据库客户端
type Pinger interface {
	Ping(ctx context.Context) error
}

func WithMeta(meta Meta) Option {
	return func(s *Server) {
		s.meta = meta
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics 在 opt.Path 暴露 prom 注册表
func WithMetrics(opt MetricsOption, prom *metrics.Prometheus) Option {
	return func(s *Server) {
		if err := tag.ApplyDefaults(&opt); err != nil {
			s.logger.Error().Err(err).Msg("invalid metrics options")
			return
		}
		s.metrics = opt
		s.prom = prom
	}
}

// WithHealth 在 opt.Path 暴露健康检查，deps 为需要探测的依赖
func WithHealth(opt HealthOption, deps map[string]Pinger) Option {
	return func(s *Server) {
		if err := tag.ApplyDefaults(&opt); err != nil {
			s.logger.Error().Err(err).Msg("invalid health options")
			return
		}
		s.health = opt
		s.deps = deps
	}
}

// WithReadHeaderTimeout 设置读取请求头超时
func WithReadHeaderTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.server.ReadHeaderTimeout = d
	}
}
