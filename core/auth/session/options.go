package session

import (
	"time"

	"github.com/kochabx/passport/core/auth/password"
	"github.com/kochabx/passport/log"
)

const (
	DefaultAccessTTL  = 5 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Option 会话服务选项
type Option func(*Service)

// WithClock 设置时钟，签发时间与过期校验共用
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics 设置指标
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAccessTTL 设置访问令牌有效期
func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.accessTTL = ttl
		}
	}
}

// WithRefreshTTL 设置刷新令牌有效期
func WithRefreshTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
	}
}

// WithHasher 设置 Authenticate 使用的密码哈希器
func WithHasher(h *password.Hasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}
