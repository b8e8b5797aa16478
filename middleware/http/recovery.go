package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	perrors "github.com/kochabx/passport/errors"
	"github.com/kochabx/passport/log"
	"github.com/kochabx/passport/transport/http/response"
)

var ErrPanic = perrors.InternalServer("internal server error")

// RecoveryConfig Recovery 中间件配置
type RecoveryConfig struct {
	StackTrace bool        // 是否记录堆栈
	Logger     *log.Logger // 默认 log.G
}

// Recovery 捕获 panic，记录日志并返回 500
// 请求转储不含请求体，Authorization 头会被脱敏
func Recovery(cfgs ...RecoveryConfig) gin.HandlerFunc {
	cfg := RecoveryConfig{StackTrace: true}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			dump := dumpRequest(c)
			if isBrokenPipe(rec) {
				cfg.Logger.Warn().Str("error", fmt.Sprint(rec)).Bytes("request", dump).Msg("broken pipe")
				_ = c.Error(fmt.Errorf("%v", rec))
				c.Abort()
				return
			}

			event := cfg.Logger.Error().Str("error", fmt.Sprint(rec)).Bytes("request", dump)
			if cfg.StackTrace {
				event = event.Bytes("stack", debug.Stack())
			}
			event.Msg("panic recovered")

			response.GinJSONE(c, ErrPanic)
		}()
		c.Next()
	}
}

func dumpRequest(c *gin.Context) []byte {
	r := c.Request.Clone(c.Request.Context())
	if r.Header.Get("Authorization") != "" {
		r.Header.Set("Authorization", "******")
	}
	dump, _ := httputil.DumpRequest(r, false)
	return dump
}

// isBrokenPipe 客户端已断开连接
func isBrokenPipe(rec any) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	var se *os.SyscallError
	if !errors.As(err, &se) {
		return false
	}
	var ne *net.OpError
	if !errors.As(err, &ne) {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
