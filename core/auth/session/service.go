package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kochabx/passport/core/auth/jwt"
	"github.com/kochabx/passport/core/auth/ledger"
	"github.com/kochabx/passport/core/auth/password"
	"github.com/kochabx/passport/core/auth/principal"
	"github.com/kochabx/passport/core/auth/signature"
	"github.com/kochabx/passport/log"
)

// 拒绝计数使用的操作名
const (
	opValidate = "validate"
	opRefresh  = "refresh"
	opRevoke   = "revoke"
)

// Session 一次登录签发的令牌对
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	SessionID    string `json:"jti"`
}

// Service 会话生命周期：签发、校验、轮换、撤销
// 账本是会话存活的唯一依据，服务本身不持有可变状态
type Service struct {
	codec     *jwt.Codec
	binder    *signature.Binder
	ledger    ledger.Ledger
	directory principal.Directory
	hasher    *password.Hasher
	logger    *log.Logger
	metrics   *Metrics
	clock     func() time.Time

	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New 创建会话服务，secret 为部署共享的签名密钥
func New(secret string, l ledger.Ledger, d principal.Directory, opts ...Option) (*Service, error) {
	if l == nil {
		return nil, errors.New("session: ledger is required")
	}
	if d == nil {
		return nil, errors.New("session: directory is required")
	}

	s := &Service{
		ledger:     l,
		directory:  d,
		logger:     log.Nop(),
		clock:      time.Now,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
	}
	for _, opt := range opts {
		opt(s)
	}

	codec, err := jwt.New(secret, jwt.WithClock(s.clock))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	binder, err := signature.New(secret)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.codec = codec
	s.binder = binder
	return s, nil
}

// CreateSession 为主体签发新会话
// 令牌仅在账本写入成功后返回，同一秒内对同一主体的重复创建只有一个成功
func (s *Service) CreateSession(ctx context.Context, p *principal.Principal) (*Session, error) {
	issuedAt := s.clock().Truncate(time.Second)
	sid := s.binder.Derive(p.ID, issuedAt)

	access, err := s.codec.Encode(jwt.NewClaims(jwt.AccessToken, p.ID, sid, issuedAt, s.accessTTL))
	if err != nil {
		return nil, ErrSessionCreationFailure.WithCause(err)
	}
	refresh, err := s.codec.Encode(jwt.NewClaims(jwt.RefreshToken, p.ID, sid, issuedAt, s.refreshTTL))
	if err != nil {
		return nil, ErrSessionCreationFailure.WithCause(err)
	}

	inserted, err := s.ledger.TryCreate(ctx, p.ID, sid)
	if err != nil {
		s.logger.Error().Err(err).Str("principal", p.ID).Msg("session create failed")
		return nil, ErrSessionCreationFailure.WithCause(err)
	}
	if !inserted {
		s.logger.Warn().Str("principal", p.ID).Str("jti", sid).Msg("session already exists")
		return nil, ErrSessionCreationFailure
	}

	s.metrics.recordCreated()
	s.logger.Info().Str("principal", p.ID).Str("jti", sid).Msg("session created")

	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL / time.Second),
		TokenType:    "Bearer",
		SessionID:    sid,
	}, nil
}

// ValidateToken 校验访问令牌并返回所属主体
func (s *Service) ValidateToken(ctx context.Context, token string) (*principal.Principal, error) {
	claims, err := s.verify(opValidate, token, jwt.AccessToken)
	if err != nil {
		return nil, err
	}

	ok, err := s.ledger.Exists(ctx, claims.PrincipalID(), claims.SessionID())
	if err != nil {
		s.logger.Error().Err(err).Str("principal", claims.PrincipalID()).Msg("session lookup failed")
		return nil, fmt.Errorf("session: validate: %w", err)
	}
	if !ok {
		s.reject(opValidate, "session not in ledger")
		return nil, ErrInvalidOrExpiredToken
	}

	p, err := s.directory.Get(ctx, claims.PrincipalID())
	if errors.Is(err, principal.ErrNotFound) {
		s.logger.Warn().Str("principal", claims.PrincipalID()).Str("jti", claims.SessionID()).Msg("live session for missing principal")
		return nil, ErrUnexpected
	}
	if err != nil {
		return nil, fmt.Errorf("session: validate: %w", err)
	}
	return p, nil
}

// RefreshSession 用刷新令牌换取新会话
// 旧会话先被消费再创建新会话，中途失败时主体不会同时持有两个会话
func (s *Service) RefreshSession(ctx context.Context, token string) (*Session, error) {
	claims, err := s.verify(opRefresh, token, jwt.RefreshToken)
	if err != nil {
		return nil, err
	}

	consumed, err := s.ledger.Consume(ctx, claims.PrincipalID(), claims.SessionID())
	if err != nil {
		s.logger.Error().Err(err).Str("principal", claims.PrincipalID()).Msg("session consume failed")
		return nil, fmt.Errorf("session: refresh: %w", err)
	}
	if !consumed {
		s.reject(opRefresh, "session not in ledger")
		return nil, ErrInvalidOrExpiredToken
	}

	p, err := s.directory.Get(ctx, claims.PrincipalID())
	if errors.Is(err, principal.ErrNotFound) {
		s.reject(opRefresh, "principal not found")
		return nil, ErrInvalidOrExpiredToken
	}
	if err != nil {
		return nil, fmt.Errorf("session: refresh: %w", err)
	}

	sess, err := s.CreateSession(ctx, p)
	if err != nil {
		return nil, err
	}
	s.metrics.recordRefreshed()
	s.logger.Info().Str("principal", p.ID).Str("from", claims.SessionID()).Str("to", sess.SessionID).Msg("session rotated")
	return sess, nil
}

// RevokeSession 撤销令牌所属会话，过期令牌同样有效，会话不存在不视为错误
func (s *Service) RevokeSession(ctx context.Context, token string) error {
	claims, err := s.codec.Decode(token, false)
	if err != nil {
		s.reject(opRevoke, err.Error())
		return ErrInvalidOrExpiredToken
	}

	if err := s.ledger.Delete(ctx, claims.PrincipalID(), claims.SessionID()); err != nil {
		s.logger.Error().Err(err).Str("principal", claims.PrincipalID()).Msg("session revoke failed")
		return fmt.Errorf("session: revoke: %w", err)
	}

	s.metrics.recordRevoked(scopeSingle)
	s.logger.Info().Str("principal", claims.PrincipalID()).Str("jti", claims.SessionID()).Msg("session revoked")
	return nil
}

// RevokeAll 撤销主体的全部会话，没有会话时直接返回
func (s *Service) RevokeAll(ctx context.Context, principalID string) error {
	ids, err := s.ledger.List(ctx, principalID)
	if err != nil {
		return fmt.Errorf("session: revoke all: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.ledger.DeleteAll(ctx, principalID); err != nil {
		s.logger.Error().Err(err).Str("principal", principalID).Msg("session revoke all failed")
		return fmt.Errorf("session: revoke all: %w", err)
	}

	s.metrics.recordRevoked(scopeAll)
	s.logger.Info().Str("principal", principalID).Int("sessions", len(ids)).Msg("all sessions revoked")
	return nil
}

// ListSessions 列出主体当前有效的会话 ID
func (s *Service) ListSessions(ctx context.Context, principalID string) ([]string, error) {
	ids, err := s.ledger.List(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("session: list: %w", err)
	}
	return ids, nil
}

// Logout 注销，full 为 true 时撤销主体全部会话，否则只撤销 token 所属会话
func (s *Service) Logout(ctx context.Context, p *principal.Principal, token string, full bool) error {
	if full {
		return s.RevokeAll(ctx, p.ID)
	}
	return s.RevokeSession(ctx, token)
}

// verify 解码令牌并校验类型与会话签名
func (s *Service) verify(op, token string, kind jwt.TokenType) (*jwt.Claims, error) {
	claims, err := s.codec.Decode(token, true)
	if err != nil {
		s.reject(op, err.Error())
		return nil, ErrInvalidOrExpiredToken
	}
	if claims.TokenType != kind {
		s.reject(op, "unexpected token type "+string(claims.TokenType))
		return nil, ErrInvalidOrExpiredToken
	}
	if !s.binder.Verify(claims.PrincipalID(), claims.Issued(), claims.SessionID()) {
		s.reject(op, "session signature mismatch")
		return nil, ErrInvalidOrExpiredToken
	}
	return claims, nil
}

func (s *Service) reject(op, reason string) {
	s.metrics.recordRejection(op)
	s.logger.Debug().Str("op", op).Str("reason", reason).Msg("token rejected")
}
