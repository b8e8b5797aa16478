package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/passport/log"
)

// 记录请求头时隐藏的字段
var sensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}

// LoggerConfig 访问日志配置
// 请求体与响应体不记录，其中含有密码与令牌
type LoggerConfig struct {
	Header      bool                    // 是否记录请求头
	HandlerName bool                    // 是否记录处理器名称
	SkipPaths   []string                // 跳过记录的路径
	SkipFunc    func(*gin.Context) bool // 动态跳过判断函数
	Logger      *log.Logger             // 默认 log.G
}

// Logger 访问日志中间件，5xx 记为 error，4xx 记为 warn
func Logger(cfgs ...LoggerConfig) gin.HandlerFunc {
	cfg := LoggerConfig{}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}
	matcher := NewPathMatcher(cfg.SkipPaths)

	return func(c *gin.Context) {
		if shouldSkip(c, matcher, cfg.SkipFunc) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := cfg.Logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = cfg.Logger.Error()
		case status >= http.StatusBadRequest:
			event = cfg.Logger.Warn()
		}

		event = event.
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if requestID := c.GetHeader("X-Request-Id"); requestID != "" {
			event = event.Str("request_id", requestID)
		}
		if cfg.HandlerName {
			event = event.Str("handler", c.HandlerName())
		}
		if cfg.Header {
			header := c.Request.Header.Clone()
			for _, name := range sensitiveHeaders {
				if header.Get(name) != "" {
					header.Set(name, "******")
				}
			}
			event = event.Any("headers", header)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.ByType(gin.ErrorTypePrivate).String())
		}

		event.Send()
	}
}
