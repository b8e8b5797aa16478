package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kochabx/passport/core/auth/password"
	"github.com/kochabx/passport/core/auth/principal"
)

var defaultHasher = sync.OnceValue(func() *password.Hasher {
	return password.New(password.DefaultParams())
})

// Authenticate 校验用户名与密码并创建会话
// 用户不存在与密码错误返回同一个错误，耗时也保持一致
func (s *Service) Authenticate(ctx context.Context, username, pw string) (*Session, error) {
	hasher := s.hasher
	if hasher == nil {
		hasher = defaultHasher()
	}

	p, err := s.directory.GetByUsername(ctx, username)
	if errors.Is(err, principal.ErrNotFound) {
		hasher.VerifyDummy(pw)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("session: authenticate: %w", err)
	}

	ok, err := hasher.Verify(p.PasswordHash, pw)
	if err != nil {
		s.logger.Warn().Err(err).Str("principal", p.ID).Msg("stored password hash unreadable")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.CreateSession(ctx, p)
	if err != nil {
		return nil, err
	}

	// 会话已生效，登录时间更新失败只记录日志
	if err := s.directory.TouchLastLogin(ctx, p.ID, s.clock()); err != nil {
		s.logger.Warn().Err(err).Str("principal", p.ID).Msg("update last login failed")
	}
	return sess, nil
}
