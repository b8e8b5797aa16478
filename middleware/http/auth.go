package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/passport/errors"
	"github.com/kochabx/passport/transport/http/response"
)

const defaultContextKey = "claims"

var (
	ErrTokenMissing = errors.Unauthorized("You are not authenticated")
	ErrTokenInvalid = errors.Unauthorized("Token is invalid or expired")
)

type contextKey string

const tokenKey contextKey = "token"

// TokenExtractor 从请求中提取令牌，未找到时返回 ErrTokenMissing
type TokenExtractor func(c *gin.Context) (string, error)

// BearerExtractor 从 Authorization: Bearer <token> 提取，scheme 不区分大小写
func BearerExtractor() TokenExtractor {
	return func(c *gin.Context) (string, error) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return "", ErrTokenMissing
		}
		if token = strings.TrimSpace(token); token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

// Authenticator 校验令牌并返回认证主体
type Authenticator[T any] interface {
	Authenticate(ctx context.Context, token string) (T, error)
}

// AuthenticatorFunc 函数适配器
type AuthenticatorFunc[T any] func(ctx context.Context, token string) (T, error)

func (f AuthenticatorFunc[T]) Authenticate(ctx context.Context, token string) (T, error) {
	return f(ctx, token)
}

// AuthConfig 认证中间件配置
type AuthConfig[T any] struct {
	Authenticator  Authenticator[T]
	Extractor      TokenExtractor            // 默认 BearerExtractor
	SkipPaths      []string                  // 跳过认证的路径
	SkipFunc       func(*gin.Context) bool   // 动态跳过判断函数
	ContextKey     string                    // 认证主体在请求上下文中的键，默认 "claims"
	SuccessHandler func(*gin.Context, T)     // 认证成功回调
	ErrorHandler   func(*gin.Context, error) // 默认按错误码写入 JSON 响应
}

// Auth 认证中间件
// 认证主体与原始令牌写入请求上下文，分别用 GetClaims 与 GetToken 读取
func Auth[T any](cfg AuthConfig[T]) gin.HandlerFunc {
	if cfg.Authenticator == nil {
		panic("middleware: auth requires an authenticator")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = BearerExtractor()
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = defaultContextKey
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = response.GinJSONE
	}
	matcher := NewPathMatcher(cfg.SkipPaths)
	key := contextKey(cfg.ContextKey)

	return func(c *gin.Context) {
		if shouldSkip(c, matcher, cfg.SkipFunc) {
			c.Next()
			return
		}

		token, err := cfg.Extractor(c)
		if err != nil {
			cfg.ErrorHandler(c, err)
			c.Abort()
			return
		}

		claims, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			cfg.ErrorHandler(c, err)
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), key, claims)
		ctx = context.WithValue(ctx, tokenKey, token)
		c.Request = c.Request.WithContext(ctx)

		if cfg.SuccessHandler != nil {
			cfg.SuccessHandler(c, claims)
		}
		c.Next()
	}
}

// GetClaims 读取认证主体，key 省略时使用默认键
func GetClaims[T any](ctx context.Context, key ...string) (T, bool) {
	k := contextKey(defaultContextKey)
	if len(key) > 0 && key[0] != "" {
		k = contextKey(key[0])
	}
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// GetToken 读取通过认证的原始令牌
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
