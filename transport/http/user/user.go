// Package user 主体注册与查询接口
package user

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/kochabx/passport/core/auth/password"
	"github.com/kochabx/passport/core/auth/principal"
	"github.com/kochabx/passport/core/validator"
	perrors "github.com/kochabx/passport/errors"
	middleware "github.com/kochabx/passport/middleware/http"
	"github.com/kochabx/passport/transport/http/response"
)

const MePath = "/me"

var (
	ErrUserExists   = perrors.Conflict("User already exists")
	ErrWeakPassword = perrors.New(http.StatusUnprocessableEntity, "Invalid password")
)

// Store 主体写入，由 *principal.GormDirectory 实现
type Store interface {
	Create(ctx context.Context, p *principal.Principal) error
}

var _ Store = (*principal.GormDirectory)(nil)

// CreateRequest 注册参数
type CreateRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
}

type Handler struct {
	store         Store
	hasher        *password.Hasher
	authenticated gin.HandlerFunc
	validate      *validator.Validator
}

// New 创建处理器，authenticated 为保护 /users/me 的认证中间件
func New(store Store, hasher *password.Hasher, authenticated gin.HandlerFunc, validate *validator.Validator) *Handler {
	if validate == nil {
		validate = validator.Validate
	}
	return &Handler{store: store, hasher: hasher, authenticated: authenticated, validate: validate}
}

// Register 在 r 下注册 /users 路由
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/users")
	g.POST("", h.Create)
	g.GET(MePath, h.authenticated, h.Me)
}

// Create 注册新主体，新主体不是超级用户
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		response.GinJSONE(c, perrors.BadRequest("malformed request").WithCause(err))
		return
	}
	if err := h.validate.StructCtx(c.Request.Context(), &req); err != nil {
		response.GinJSONE(c, perrors.BadRequest("%s", err.Error()).WithCause(err))
		return
	}
	if reasons := password.Weaknesses(req.Password); len(reasons) > 0 {
		response.GinJSONE(c, ErrWeakPassword.WithMetadata(map[string]string{
			"password": strings.Join(reasons, " "),
		}))
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		response.GinJSONE(c, err)
		return
	}
	p := &principal.Principal{Username: req.Username, PasswordHash: hash, FullName: req.FullName}
	if err := h.store.Create(c.Request.Context(), p); err != nil {
		if errors.Is(err, principal.ErrDuplicateName) {
			err = ErrUserExists.WithCause(err)
		}
		response.GinJSONE(c, err)
		return
	}
	response.Created(c, p)
}

// Me 返回当前令牌所属主体
func (h *Handler) Me(c *gin.Context) {
	p, ok := middleware.GetClaims[*principal.Principal](c.Request.Context())
	if !ok || p == nil {
		response.GinJSONE(c, middleware.ErrTokenMissing)
		return
	}
	response.GinJSON(c, p)
}
