package redis

import (
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/kochabx/passport/log"
)

// Option 客户端配置选项
type Option func(*clientOptions)

type clientOptions struct {
	hooks []redis.Hook

	enableMetrics bool
	enableTracing bool
	tracingOpts   []redisotel.TracingOption
	metricsOpts   []redisotel.MetricsOption

	logger *log.Logger
}

// WithHooks 添加自定义 Hooks
func WithHooks(hooks ...redis.Hook) Option {
	return func(o *clientOptions) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// WithMetrics 启用 OpenTelemetry Metrics
func WithMetrics(opts ...redisotel.MetricsOption) Option {
	return func(o *clientOptions) {
		o.enableMetrics = true
		o.metricsOpts = opts
	}
}

// WithTracing 启用 OpenTelemetry 分布式追踪
func WithTracing(opts ...redisotel.TracingOption) Option {
	return func(o *clientOptions) {
		o.enableTracing = true
		o.tracingOpts = opts
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
