package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType 区分同一会话签发的两种令牌
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Valid 是否为已知的令牌类型
func (t TokenType) Valid() bool {
	return t == AccessToken || t == RefreshToken
}

// Claims 会话令牌载荷
// sub 为主体 ID，jti 为会话 ID（同时是会话签名与账本键），token_type 为令牌类型
type Claims struct {
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// NewClaims 按签发时间与有效期构造载荷，时间精度为秒
func NewClaims(kind TokenType, principalID, sessionID string, issuedAt time.Time, ttl time.Duration) *Claims {
	issuedAt = issuedAt.Truncate(time.Second)
	return &Claims{
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
}

// PrincipalID 主体 ID
func (c *Claims) PrincipalID() string {
	return c.Subject
}

// SessionID 会话 ID
func (c *Claims) SessionID() string {
	return c.ID
}

// Issued 签发时间，未设置时返回零值
func (c *Claims) Issued() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// check 校验载荷完整性
func (c *Claims) check() error {
	if c.Subject == "" || c.ID == "" || !c.TokenType.Valid() {
		return ErrInvalidClaims
	}
	if c.IssuedAt == nil || c.ExpiresAt == nil {
		return ErrInvalidClaims
	}
	return nil
}
