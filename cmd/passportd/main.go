// passportd 会话签发与校验服务
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kochabx/passport/config"
	"github.com/kochabx/passport/log"
)

const envPrefix = "PASSPORT"

var configFile string

var rootCmd = &cobra.Command{
	Use:           "passportd",
	Short:         "Session issuing and validation service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./config.yaml or ./configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("passportd failed")
		os.Exit(1)
	}
}

func configOptions() []config.Option {
	opts := []config.Option{config.WithEnvPrefix(envPrefix)}
	if configFile != "" {
		opts = append(opts, config.WithFile(filepath.Base(configFile), filepath.Dir(configFile)))
	}
	return opts
}

// loadConfig 读取配置并初始化全局日志
func loadConfig() (*Config, *log.Logger, error) {
	cfg := new(Config)
	if err := config.New(cfg, configOptions()...).Load(); err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log.SetGlobalLogger(logger)
	if cfg.Log.Level != "debug" && cfg.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg, logger, nil
}

// newLogger 以 trace 创建 Logger，实际级别由全局级别控制，便于热更新
func newLogger(c log.Config) (*log.Logger, error) {
	level := c.Level
	if level == "" {
		level = "info"
	}
	c.Level = "trace"
	logger, err := log.NewFromConfig(c)
	if err != nil {
		return nil, err
	}
	if err := log.SetLevel(level); err != nil {
		_ = logger.Close()
		return nil, err
	}
	return logger, nil
}

// reloadable 运行期可热更新的配置
type reloadable struct {
	Log log.Config `json:"log" mapstructure:"log"`
}

// watchLogLevel 监听配置文件，log.level 变化时调整全局日志级别
func watchLogLevel(logger *log.Logger, opts ...config.Option) error {
	r := new(reloadable)
	c := config.New(r, append(opts,
		config.WithLogger(logger),
		config.WithOnChange(func() {
			if err := log.SetLevel(r.Log.Level); err != nil {
				logger.Warn().Err(err).Msg("log level not changed")
				return
			}
			logger.Info().Str("level", r.Log.Level).Msg("log level changed")
		}),
	)...)
	if err := c.Load(); err != nil {
		return err
	}
	return c.Watch()
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		d, err := setup(ctx, cfg, logger)
		if err != nil {
			return err
		}
		if err := watchLogLevel(logger, configOptions()...); err != nil {
			logger.Warn().Err(err).Msg("config watch disabled")
		}
		return d.app.Run(ctx)
	},
}
