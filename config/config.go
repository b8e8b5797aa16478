package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/passport/core/validator"
	"github.com/kochabx/passport/log"
)

// Config 配置管理
type Config struct {
	mu        sync.Mutex
	viper     *viper.Viper
	validate  *validator.Validator
	target    any
	loader    Loader
	logger    *log.Logger
	name      string
	paths     []string
	envPrefix string
	onChange  func()
}

// New 创建配置管理
// 未指定加载器时使用 FileLoader，默认在 . 与 ./configs 下查找 config.yaml
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
		logger:   log.G,
		name:     "config.yaml",
		paths:    []string{".", "./configs"},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader(c.name, c.paths, c.envPrefix, c.viper, c.validate)
	}
	return c
}

// Load 加载配置
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loader.Load(c.target)
}

// Reload 重新加载配置
func (c *Config) Reload() error {
	return c.Load()
}

// Watch 监听配置变化并自动重新加载
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		c.logger.Info().Msg("config change detected")

		if err := c.Reload(); err != nil {
			c.logger.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		c.logger.Info().Msg("config reloaded successfully")
		if c.onChange != nil {
			c.onChange()
		}
	})
}

// Viper 底层 viper 实例
func (c *Config) Viper() *viper.Viper {
	return c.viper
}
