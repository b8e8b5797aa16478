package db

import (
	"strconv"
	"strings"
	"time"

	"github.com/kochabx/passport/core/tag"
)

// Driver 数据库驱动类型
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Config 数据库配置，按 Driver 选择对应小节生成 DSN
// DSN 非空时直接使用，忽略驱动小节
type Config struct {
	Driver    Driver        `json:"driver" mapstructure:"driver" default:"sqlite" validate:"oneof=mysql postgres sqlite"`
	DSN       string        `json:"dsn" mapstructure:"dsn"`
	LogLevel  string        `json:"log_level" mapstructure:"log_level" default:"silent" validate:"oneof=silent error warn info"`
	SlowQuery time.Duration `json:"slow_query" mapstructure:"slow_query" default:"200ms"`
	// AutoMigrate 启动时同步表结构
	AutoMigrate bool `json:"auto_migrate" mapstructure:"auto_migrate" default:"true"`

	Pool     PoolConfig     `json:"pool" mapstructure:"pool"`
	SQLite   SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig `json:"postgres" mapstructure:"postgres"`
	MySQL    MySQLConfig    `json:"mysql" mapstructure:"mysql"`
}

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int           `json:"max_idle_conns" mapstructure:"max_idle_conns" default:"10"`
	MaxOpenConns    int           `json:"max_open_conns" mapstructure:"max_open_conns" default:"100"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime" default:"1h"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" mapstructure:"conn_max_idle_time" default:"10m"`
}

// SQLiteConfig SQLite 配置
type SQLiteConfig struct {
	Path        string `json:"path" mapstructure:"path" default:"passport.db"`
	JournalMode string `json:"journal_mode" mapstructure:"journal_mode" default:"WAL"`
	BusyTimeout int    `json:"busy_timeout" mapstructure:"busy_timeout" default:"5000"`
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host" default:"localhost"`
	Port     int    `json:"port" mapstructure:"port" default:"5432"`
	User     string `json:"user" mapstructure:"user" default:"postgres"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database" default:"passport"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode" default:"disable"`
	TimeZone string `json:"timezone" mapstructure:"timezone" default:"UTC"`
}

// MySQLConfig MySQL 配置
type MySQLConfig struct {
	Host     string `json:"host" mapstructure:"host" default:"localhost"`
	Port     int    `json:"port" mapstructure:"port" default:"3306"`
	User     string `json:"user" mapstructure:"user" default:"root"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database" default:"passport"`
	Charset  string `json:"charset" mapstructure:"charset" default:"utf8mb4"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// DataSource 返回当前驱动的 DSN
func (c *Config) DataSource() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.Driver {
	case DriverSQLite:
		return c.SQLite.dsn(), nil
	case DriverPostgres:
		return c.Postgres.dsn(), nil
	case DriverMySQL:
		return c.MySQL.dsn(), nil
	default:
		return "", ErrUnsupportedDriver
	}
}

func (c *SQLiteConfig) dsn() string {
	var b strings.Builder
	b.WriteString("file:")
	b.WriteString(c.Path)
	b.WriteString("?_journal_mode=")
	b.WriteString(c.JournalMode)
	b.WriteString("&_busy_timeout=")
	b.WriteString(strconv.Itoa(c.BusyTimeout))
	return b.String()
}

func (c *PostgresConfig) dsn() string {
	var b strings.Builder
	b.WriteString("host=")
	b.WriteString(c.Host)
	b.WriteString(" port=")
	b.WriteString(strconv.Itoa(c.Port))
	b.WriteString(" user=")
	b.WriteString(c.User)
	b.WriteString(" password=")
	b.WriteString(c.Password)
	b.WriteString(" dbname=")
	b.WriteString(c.Database)
	b.WriteString(" sslmode=")
	b.WriteString(c.SSLMode)
	b.WriteString(" TimeZone=")
	b.WriteString(c.TimeZone)
	return b.String()
}

// user:password@tcp(host:port)/database?charset=...&parseTime=true&loc=UTC
func (c *MySQLConfig) dsn() string {
	var b strings.Builder
	b.WriteString(c.User)
	b.WriteByte(':')
	b.WriteString(c.Password)
	b.WriteString("@tcp(")
	b.WriteString(c.Host)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(c.Port))
	b.WriteString(")/")
	b.WriteString(c.Database)
	b.WriteString("?charset=")
	b.WriteString(c.Charset)
	b.WriteString("&parseTime=true&loc=UTC")
	return b.String()
}
