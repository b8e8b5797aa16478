package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CorsConfig 跨域配置，可直接从配置文件加载
type CorsConfig struct {
	Enabled          bool     `json:"enabled" mapstructure:"enabled"`
	AllowOrigins     []string `json:"allow_origins" mapstructure:"allow_origins" default:"*"` // 支持 "*" 与 "*.example.com"
	AllowMethods     []string `json:"allow_methods" mapstructure:"allow_methods" default:"GET,POST,DELETE,OPTIONS"`
	AllowHeaders     []string `json:"allow_headers" mapstructure:"allow_headers" default:"Origin,Content-Type,Authorization,X-Request-Id"`
	ExposeHeaders    []string `json:"expose_headers" mapstructure:"expose_headers"`
	AllowCredentials bool     `json:"allow_credentials" mapstructure:"allow_credentials"` // AllowOrigins 为 "*" 时回显请求源
	MaxAge           int      `json:"max_age" mapstructure:"max_age" default:"43200"`     // 预检缓存秒数

	SkipPaths []string                `json:"-" mapstructure:"-"`
	SkipFunc  func(*gin.Context) bool `json:"-" mapstructure:"-"`
}

// Cors 跨域中间件
func Cors(cfg CorsConfig) gin.HandlerFunc {
	allowAll := slices.Contains(cfg.AllowOrigins, "*")

	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)
	matcher := NewPathMatcher(cfg.SkipPaths)

	return func(c *gin.Context) {
		if shouldSkip(c, matcher, cfg.SkipFunc) {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" || !(allowAll || originAllowed(origin, cfg.AllowOrigins)) {
			c.Next()
			return
		}

		h := c.Writer.Header()
		if allowAll && !cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if expose != "" {
			h.Set("Access-Control-Expose-Headers", expose)
		}

		if c.Request.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == origin {
			return true
		}
		if suffix, ok := strings.CutPrefix(a, "*"); ok && strings.HasPrefix(suffix, ".") && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}
