package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/passport/app"
	"github.com/kochabx/passport/core/auth/ledger"
	ledgerredis "github.com/kochabx/passport/core/auth/ledger/redis"
	"github.com/kochabx/passport/core/auth/password"
	"github.com/kochabx/passport/core/auth/principal"
	"github.com/kochabx/passport/core/auth/session"
	"github.com/kochabx/passport/core/tag"
	"github.com/kochabx/passport/log"
	middleware "github.com/kochabx/passport/middleware/http"
	"github.com/kochabx/passport/store/db"
	"github.com/kochabx/passport/store/redis"
	transporthttp "github.com/kochabx/passport/transport/http"
	"github.com/kochabx/passport/transport/http/auth"
	"github.com/kochabx/passport/transport/http/metrics"
	"github.com/kochabx/passport/transport/http/user"
)

// daemon 组装完成、尚未启动的服务进程
type daemon struct {
	app     *app.App
	handler http.Handler
	service *session.Service
}

// setup 按配置依次创建数据库、账本、会话服务与 HTTP 服务
// 任一步失败时释放已创建的资源
func setup(ctx context.Context, cfg *Config, logger *log.Logger) (d *daemon, err error) {
	if err := tag.ApplyDefaults(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	var cleanup []func() error
	defer func() {
		if err != nil {
			for i := len(cleanup) - 1; i >= 0; i-- {
				_ = cleanup[i]()
			}
		}
	}()
	opts := []app.Option{
		app.WithLogger(logger),
		app.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	}
	pingers := make(map[string]transporthttp.Pinger)

	dbc, err := db.New(ctx, &cfg.Database, db.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	cleanup = append(cleanup, dbc.Close)
	opts = append(opts, app.WithCloser("database", func(context.Context) error { return dbc.Close() }, 0))
	pingers["database"] = dbc

	directory := principal.NewGormDirectory(dbc.DB())
	if cfg.Database.AutoMigrate {
		if err := directory.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("database: migrate: %w", err)
		}
	}

	var l ledger.Ledger
	switch cfg.Session.Ledger {
	case LedgerMemory:
		logger.Warn().Msg("using in-memory session ledger, sessions are lost on restart")
		l = ledger.NewMemory(ledger.WithMemoryTTL(cfg.Session.RefreshTTL))
	default:
		rc, err := redis.New(ctx, &cfg.Redis, append(cfg.Redis.Options(), redis.WithLogger(logger))...)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		cleanup = append(cleanup, rc.Close)
		opts = append(opts, app.WithCloser("redis", func(context.Context) error { return rc.Close() }, 0))
		pingers["redis"] = rc
		l = ledgerredis.New(rc,
			ledgerredis.WithKeyPrefix(cfg.Session.KeyPrefix),
			ledgerredis.WithTTL(cfg.Session.RefreshTTL),
		)
	}

	hasher := password.New(cfg.Session.Password)
	prom := metrics.New().WithProcessCollector()
	svc, err := session.New(cfg.Session.Secret, l, directory,
		session.WithLogger(logger),
		session.WithMetrics(session.NewMetrics(prom.Registry())),
		session.WithAccessTTL(cfg.Session.AccessTTL),
		session.WithRefreshTTL(cfg.Session.RefreshTTL),
		session.WithHasher(hasher),
	)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(middleware.RecoveryConfig{Logger: logger}),
		middleware.Logger(middleware.LoggerConfig{
			Logger:    logger,
			SkipPaths: []string{cfg.Server.Health.Path, cfg.Server.Metrics.Path},
		}),
	)
	if cfg.Server.Cors.Enabled {
		r.Use(middleware.Cors(cfg.Server.Cors))
	}
	authHandler := auth.New(svc, nil)
	authHandler.Register(r)
	user.New(directory, hasher, authHandler.Authenticated(), nil).Register(r)

	srv := transporthttp.NewServer(cfg.Server.Addr, r,
		transporthttp.WithMeta(transporthttp.Meta{Name: "passport"}),
		transporthttp.WithLogger(logger),
		transporthttp.WithMetrics(cfg.Server.Metrics, prom),
		transporthttp.WithHealth(cfg.Server.Health, pingers),
	)
	opts = append(opts, app.WithServer(srv))

	return &daemon{app: app.New(opts...), handler: srv.Handler(), service: svc}, nil
}
