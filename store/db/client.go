package db

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kochabx/passport/log"
)

// Client 数据库客户端
type Client struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	driver Driver
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

	o := &clientOptions{connectTimeout: 10 * time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.logger == nil {
		o.logger = log.G
	}

	dialector, err := dialect(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(gormLogWriter{o.logger}, logger.Config{
			LogLevel:                  parseLogLevel(cfg.LogLevel),
			SlowThreshold:             cfg.SlowQuery,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}
	for _, plugin := range o.plugins {
		if err := gdb.Use(plugin); err != nil {
			return nil, err
		}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Pool.ConnMaxIdleTime)

	c := &Client{db: gdb, sqlDB: sqlDB, driver: cfg.Driver, logger: o.logger}

	pingCtx, cancel := context.WithTimeout(ctx, o.connectTimeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.logger.Debug().Str("driver", string(cfg.Driver)).Msg("database client created")
	return c, nil
}

func dialect(cfg *Config) (gorm.Dialector, error) {
	dsn, err := cfg.DataSource()
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}

// DB 获取 GORM 实例
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Driver 当前驱动
func (c *Client) Driver() Driver {
	return c.driver
}

// Ping 测试数据库连接
func (c *Client) Ping(ctx context.Context) error {
	return c.sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (c *Client) Close() error {
	return c.sqlDB.Close()
}

// Stats 连接池统计
func (c *Client) Stats() sql.DBStats {
	return c.sqlDB.Stats()
}

// gormLogWriter 将 GORM 日志写入 zerolog
type gormLogWriter struct {
	logger *log.Logger
}

func (w gormLogWriter) Printf(format string, args ...any) {
	w.logger.Info().Str("component", "gorm").Msgf(format, args...)
}
