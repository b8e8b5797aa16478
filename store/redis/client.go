package redis

import (
	"context"
	"runtime"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/kochabx/passport/log"
)

// Client Redis 统一客户端（支持单机/集群/哨兵模式）
type Client struct {
	client redis.UniversalClient
	config *Config
	logger *log.Logger
}

// New 创建客户端并检查连通性
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &clientOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	logger := o.logger
	if logger == nil {
		logger = log.G
	}

	c := &Client{
		client: redis.NewUniversalClient(universalOptions(cfg)),
		config: cfg,
		logger: logger,
	}

	if err := c.setupHooks(o); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.client.Close()
		return nil, err
	}

	c.logger.Debug().Str("mode", cfg.Mode()).Strs("addrs", cfg.Addrs).Msg("redis client created")
	return c, nil
}

func universalOptions(cfg *Config) *redis.UniversalOptions {
	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = 10 * runtime.GOMAXPROCS(0)
	}

	return &redis.UniversalOptions{
		Addrs:      cfg.Addrs,
		MasterName: cfg.MasterName,
		Username:   cfg.Username,
		Password:   cfg.Password,
		DB:         cfg.DB,
		Protocol:   cfg.Protocol,

		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		PoolSize:        poolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxIdleTime: cfg.MaxIdleTime,
		ConnMaxLifetime: cfg.MaxLifetime,
		PoolTimeout:     cfg.PoolTimeout,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
		MaxRedirects:    cfg.MaxRedirects,
	}
}

func (c *Client) setupHooks(o *clientOptions) error {
	for _, hook := range o.hooks {
		c.client.AddHook(hook)
	}
	if o.enableTracing {
		if err := redisotel.InstrumentTracing(c.client, o.tracingOpts...); err != nil {
			return err
		}
	}
	if o.enableMetrics {
		if err := redisotel.InstrumentMetrics(c.client, o.metricsOpts...); err != nil {
			return err
		}
	}
	if c.config.Debug {
		c.client.AddHook(NewDebugHook(c.logger, c.config.SlowQuery))
	}
	return nil
}

// UniversalClient 获取底层 redis.UniversalClient
func (c *Client) UniversalClient() redis.UniversalClient {
	return c.client
}

// Ping 测试连接
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close 关闭客户端
func (c *Client) Close() error {
	err := c.client.Close()
	c.logger.Debug().Msg("redis client closed")
	return err
}

// HealthStatus 健康状态
type HealthStatus struct {
	Healthy   bool          `json:"healthy"`
	Latency   time.Duration `json:"latency"`
	TotalConn uint32        `json:"total_conns"`
	IdleConn  uint32        `json:"idle_conns"`
	Error     string        `json:"error,omitempty"`
}

// Health 执行一次 PING 并返回连接池状态
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	err := c.Ping(ctx)
	status := HealthStatus{Latency: time.Since(start)}
	if err != nil {
		status.Error = err.Error()
		c.logger.Error().Dur("latency", status.Latency).Err(err).Msg("redis health check failed")
		return status
	}

	status.Healthy = true
	if stats := c.client.PoolStats(); stats != nil {
		status.TotalConn = stats.TotalConns
		status.IdleConn = stats.IdleConns
	}
	return status
}
