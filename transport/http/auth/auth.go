// Package auth 会话相关的 HTTP 接口
package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/kochabx/passport/core/auth/principal"
	"github.com/kochabx/passport/core/auth/session"
	"github.com/kochabx/passport/core/validator"
	"github.com/kochabx/passport/errors"
	middleware "github.com/kochabx/passport/middleware/http"
	"github.com/kochabx/passport/transport/http/response"
)

const (
	TokenPath    = "/token"
	RefreshPath  = "/refresh"
	LogoutPath   = "/logout"
	SessionsPath = "/sessions"
)

// Service 接口依赖的会话能力，由 *session.Service 实现
type Service interface {
	Authenticate(ctx context.Context, username, password string) (*session.Session, error)
	RefreshSession(ctx context.Context, token string) (*session.Session, error)
	ValidateToken(ctx context.Context, token string) (*principal.Principal, error)
	Logout(ctx context.Context, p *principal.Principal, token string, full bool) error
	ListSessions(ctx context.Context, principalID string) ([]string, error)
}

var _ Service = (*session.Service)(nil)

// Credentials 表单登录参数
type Credentials struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// RefreshRequest 刷新参数
type RefreshRequest struct {
	Token string `json:"token" validate:"required"`
}

// SessionsResponse 当前主体的有效会话
type SessionsResponse struct {
	PrincipalID string   `json:"principal_id"`
	Sessions    []string `json:"sessions"`
}

type Handler struct {
	svc      Service
	validate *validator.Validator
}

// New 创建处理器，validate 为 nil 时使用全局校验器
func New(svc Service, validate *validator.Validator) *Handler {
	if validate == nil {
		validate = validator.Validate
	}
	return &Handler{svc: svc, validate: validate}
}

// Register 在 r 下注册 /auth 路由
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/auth")
	g.POST(TokenPath, h.Token)
	g.POST(RefreshPath, h.Refresh)

	protected := g.Group("", h.Authenticated())
	protected.DELETE(LogoutPath, h.Logout)
	protected.GET(SessionsPath, h.Sessions)
}

// Authenticated 要求有效访问令牌的中间件
func (h *Handler) Authenticated() gin.HandlerFunc {
	return middleware.Auth(middleware.AuthConfig[*principal.Principal]{
		Authenticator: middleware.AuthenticatorFunc[*principal.Principal](h.svc.ValidateToken),
	})
}

// Token 用户名密码登录
func (h *Handler) Token(c *gin.Context) {
	var req Credentials
	if err := h.bind(c, binding.Form, &req); err != nil {
		response.GinJSONE(c, err)
		return
	}

	sess, err := h.svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	writeSession(c, sess)
}

// Refresh 用刷新令牌换取新会话
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := h.bind(c, binding.JSON, &req); err != nil {
		response.GinJSONE(c, err)
		return
	}

	sess, err := h.svc.RefreshSession(c.Request.Context(), req.Token)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	writeSession(c, sess)
}

// Logout 注销当前会话，full_logout=true 时注销全部会话
func (h *Handler) Logout(c *gin.Context) {
	full := false
	if v := c.Query("full_logout"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.GinJSONE(c, errors.BadRequest("full_logout must be a boolean"))
			return
		}
		full = b
	}

	p, token, ok := identity(c)
	if !ok {
		response.GinJSONE(c, middleware.ErrTokenMissing)
		return
	}
	if err := h.svc.Logout(c.Request.Context(), p, token, full); err != nil {
		response.GinJSONE(c, err)
		return
	}
	response.NoContent(c)
}

// Sessions 列出当前主体的有效会话
func (h *Handler) Sessions(c *gin.Context) {
	p, _, ok := identity(c)
	if !ok {
		response.GinJSONE(c, middleware.ErrTokenMissing)
		return
	}
	ids, err := h.svc.ListSessions(c.Request.Context(), p.ID)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	response.GinJSON(c, SessionsResponse{PrincipalID: p.ID, Sessions: ids})
}

func (h *Handler) bind(c *gin.Context, b binding.Binding, obj any) error {
	if err := c.ShouldBindWith(obj, b); err != nil {
		return errors.BadRequest("malformed request").WithCause(err)
	}
	if err := h.validate.StructCtx(c.Request.Context(), obj); err != nil {
		return errors.BadRequest("%s", err.Error()).WithCause(err)
	}
	return nil
}

func identity(c *gin.Context) (*principal.Principal, string, bool) {
	p, ok := middleware.GetClaims[*principal.Principal](c.Request.Context())
	if !ok || p == nil {
		return nil, "", false
	}
	token, ok := middleware.GetToken(c.Request.Context())
	return p, token, ok
}

// writeSession 令牌响应不可缓存
func writeSession(c *gin.Context, sess *session.Session) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, sess)
}
