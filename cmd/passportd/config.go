package main

import (
	"time"

	"github.com/kochabx/passport/core/auth/password"
	middleware "github.com/kochabx/passport/middleware/http"
	"github.com/kochabx/passport/log"
	"github.com/kochabx/passport/store/db"
	"github.com/kochabx/passport/store/redis"
	transporthttp "github.com/kochabx/passport/transport/http"
)

const (
	LedgerRedis  = "redis"
	LedgerMemory = "memory"
)

// Config passportd 配置，对应 config.yaml，环境变量前缀 PASSPORT_
type Config struct {
	Server   ServerConfig  `json:"server" mapstructure:"server"`
	Log      log.Config    `json:"log" mapstructure:"log"`
	Session  SessionConfig `json:"session" mapstructure:"session"`
	Redis    redis.Config  `json:"redis" mapstructure:"redis"`
	Database db.Config     `json:"database" mapstructure:"database"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string                      `json:"addr" mapstructure:"addr" default:":8080"`
	ShutdownTimeout time.Duration               `json:"shutdown_timeout" mapstructure:"shutdown_timeout" default:"15s"`
	Cors            middleware.CorsConfig       `json:"cors" mapstructure:"cors"`
	Metrics         transporthttp.MetricsOption `json:"metrics" mapstructure:"metrics"`
	Health          transporthttp.HealthOption  `json:"health" mapstructure:"health"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	// Secret 签名与绑定共用的密钥，不得写入日志
	Secret     string          `json:"-" mapstructure:"secret" validate:"required,min=16"`
	AccessTTL  time.Duration   `json:"access_ttl" mapstructure:"access_ttl" default:"5m" validate:"gt=0"`
	RefreshTTL time.Duration   `json:"refresh_ttl" mapstructure:"refresh_ttl" default:"168h" validate:"gtfield=AccessTTL"`
	Ledger     string          `json:"ledger" mapstructure:"ledger" default:"redis" validate:"oneof=redis memory"`
	KeyPrefix  string          `json:"key_prefix" mapstructure:"key_prefix" default:"passport:session"`
	Password   password.Params `json:"password" mapstructure:"password"`
}
