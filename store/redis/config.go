package redis

import (
	"time"

	"github.com/kochabx/passport/core/tag"
)

// Config Redis 统一配置（支持单机/集群/哨兵模式）
// 单机: addrs 只有一个地址；集群: 多个地址；哨兵: 设置 master_name，addrs 为哨兵地址
type Config struct {
	Addrs      []string `json:"addrs" mapstructure:"addrs" default:"localhost:6379" validate:"min=1"`
	MasterName string   `json:"master_name" mapstructure:"master_name"`

	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db" validate:"gte=0"`

	// Protocol 2: RESP2, 3: RESP3 (Redis 6.0+)
	Protocol int `json:"protocol" mapstructure:"protocol" default:"3" validate:"oneof=2 3"`

	DialTimeout  time.Duration `json:"dial_timeout" mapstructure:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `json:"read_timeout" mapstructure:"read_timeout" default:"3s"`
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout" default:"3s"`

	// PoolSize 0 表示 10 * runtime.GOMAXPROCS
	PoolSize     int           `json:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns" mapstructure:"min_idle_conns"`
	MaxIdleTime  time.Duration `json:"max_idle_time" mapstructure:"max_idle_time" default:"5m"`
	MaxLifetime  time.Duration `json:"max_lifetime" mapstructure:"max_lifetime"`
	PoolTimeout  time.Duration `json:"pool_timeout" mapstructure:"pool_timeout" default:"4s"`

	// MaxRetries -1 禁用重试，0 使用默认的 3 次
	MaxRetries      int           `json:"max_retries" mapstructure:"max_retries"`
	MinRetryBackoff time.Duration `json:"min_retry_backoff" mapstructure:"min_retry_backoff" default:"8ms"`
	MaxRetryBackoff time.Duration `json:"max_retry_backoff" mapstructure:"max_retry_backoff" default:"512ms"`

	MaxRedirects int `json:"max_redirects" mapstructure:"max_redirects" default:"3"`

	// Debug 记录每条命令，SlowQuery 大于 0 时超过阈值的命令记为警告
	Debug     bool          `json:"debug" mapstructure:"debug"`
	SlowQuery time.Duration `json:"slow_query" mapstructure:"slow_query"`

	// Tracing、Metrics 通过 redisotel 上报到全局 OpenTelemetry Provider
	Tracing bool `json:"tracing" mapstructure:"tracing"`
	Metrics bool `json:"metrics" mapstructure:"metrics"`
}

// Options 返回配置中开启的观测选项
func (c *Config) Options() []Option {
	var opts []Option
	if c.Tracing {
		opts = append(opts, WithTracing())
	}
	if c.Metrics {
		opts = append(opts, WithMetrics())
	}
	return opts
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// Single 创建单机模式配置
func Single(addr string) *Config {
	return &Config{Addrs: []string{addr}}
}

// Cluster 创建集群模式配置
func Cluster(addrs ...string) *Config {
	return &Config{Addrs: addrs}
}

// Sentinel 创建哨兵模式配置
func Sentinel(masterName string, addrs ...string) *Config {
	return &Config{Addrs: addrs, MasterName: masterName}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if len(c.Addrs) == 0 {
		return ErrEmptyAddrs
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Mode 返回客户端模式
func (c *Config) Mode() string {
	switch {
	case c.MasterName != "":
		return "sentinel"
	case len(c.Addrs) > 1:
		return "cluster"
	default:
		return "single"
	}
}
