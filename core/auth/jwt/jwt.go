package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("jwt: invalid token")
	ErrInvalidClaims = errors.New("jwt: invalid claims")
	ErrEmptySecret   = errors.New("jwt: secret cannot be empty")
)

// Option 编解码器选项
type Option func(*Codec)

// WithClock 设置过期校验使用的时钟
func WithClock(clock func() time.Time) Option {
	return func(c *Codec) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// Codec 使用部署共享密钥以 HS256 签发与解析会话令牌
type Codec struct {
	secret []byte
	clock  func() time.Time
	method jwt.SigningMethod

	parser         *jwt.Parser
	parserNoExpiry *jwt.Parser
}

// New 创建编解码器
func New(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	c := &Codec{
		secret: []byte(secret),
		clock:  time.Now,
		method: jwt.SigningMethodHS256,
	}
	for _, opt := range opts {
		opt(c)
	}

	methods := jwt.WithValidMethods([]string{c.method.Alg()})
	c.parser = jwt.NewParser(methods, jwt.WithTimeFunc(c.clock), jwt.WithExpirationRequired())
	c.parserNoExpiry = jwt.NewParser(methods, jwt.WithoutClaimsValidation())
	return c, nil
}

// Encode 签发令牌，仅在载荷不完整时返回错误
func (c *Codec) Encode(claims *Claims) (string, error) {
	if claims == nil {
		return "", ErrInvalidClaims
	}
	if err := claims.check(); err != nil {
		return "", err
	}
	token, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return token, nil
}

// Decode 解析并校验签名
// verifyExpiry 为 false 时跳过过期校验，签名与算法仍然必须有效
func (c *Codec) Decode(token string, verifyExpiry bool) (*Claims, error) {
	parser := c.parser
	if !verifyExpiry {
		parser = c.parserNoExpiry
	}

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, c.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if err := claims.check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}

func (c *Codec) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return c.secret, nil
}
