package config

import (
	"github.com/spf13/viper"

	"github.com/kochabx/passport/core/validator"
	"github.com/kochabx/passport/log"
)

// Option 配置选项
type Option func(*Config)

// WithViper 使用自定义 viper 实例
func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		if v != nil {
			c.viper = v
		}
	}
}

// WithValidator 使用自定义校验器，传 nil 关闭校验
func WithValidator(v *validator.Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}

// WithLoader 使用自定义加载器
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.loader = loader
	}
}

// WithFile 设置配置文件名与搜索路径
func WithFile(name string, paths ...string) Option {
	return func(c *Config) {
		c.name = name
		if len(paths) > 0 {
			c.paths = paths
		}
	}
}

// WithEnvPrefix 设置环境变量前缀，如 PASSPORT 对应 PASSPORT_SESSION_SECRET
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithOnChange 配置重新加载成功后的回调
func WithOnChange(fn func()) Option {
	return func(c *Config) {
		c.onChange = fn
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
