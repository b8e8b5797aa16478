package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/passport/core/auth/ledger"
	kitredis "github.com/kochabx/passport/store/redis"
)

const (
	// DefaultKeyPrefix 账本键前缀，完整键为 <prefix>:<principalID>
	DefaultKeyPrefix = "passport:session"
	// DefaultTTL 与刷新令牌默认有效期一致
	DefaultTTL = 7 * 24 * time.Hour
)

// Option 账本选项
type Option func(*Ledger)

// WithKeyPrefix 设置键前缀
func WithKeyPrefix(prefix string) Option {
	return func(l *Ledger) {
		if prefix != "" {
			l.prefix = prefix
		}
	}
}

// WithTTL 设置主体键的过期时间，每次插入时重置，0 表示不过期
func WithTTL(ttl time.Duration) Option {
	return func(l *Ledger) {
		l.ttl = max(ttl, 0)
	}
}

// Ledger 基于 Redis 哈希的会话账本
// 每个主体一个哈希，field 为会话 ID，value 为主体 ID
type Ledger struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ledger.Ledger = (*Ledger)(nil)

// New 创建账本
func New(client *kitredis.Client, opts ...Option) *Ledger {
	return NewWithClient(client.UniversalClient(), opts...)
}

// NewWithClient 使用已有的 go-redis 客户端创建账本
func NewWithClient(rdb redis.UniversalClient, opts ...Option) *Ledger {
	l := &Ledger{
		rdb:    rdb,
		prefix: DefaultKeyPrefix,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) key(principalID string) string {
	return l.prefix + ":" + principalID
}

// TryCreate HSETNX 与 EXPIRE 在同一事务中执行
func (l *Ledger) TryCreate(ctx context.Context, principalID, sessionID string) (bool, error) {
	key := l.key(principalID)

	var setnx *redis.BoolCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		setnx = pipe.HSetNX(ctx, key, sessionID, principalID)
		if l.ttl > 0 {
			pipe.Expire(ctx, key, l.ttl)
		}
		return nil
	})
	if err != nil {
		return false, ledger.NewStoreError("try_create", err)
	}
	return setnx.Val(), nil
}

func (l *Ledger) Exists(ctx context.Context, principalID, sessionID string) (bool, error) {
	ok, err := l.rdb.HExists(ctx, l.key(principalID), sessionID).Result()
	if err != nil {
		return false, ledger.NewStoreError("exists", err)
	}
	return ok, nil
}

func (l *Ledger) Delete(ctx context.Context, principalID, sessionID string) error {
	if err := l.rdb.HDel(ctx, l.key(principalID), sessionID).Err(); err != nil {
		return ledger.NewStoreError("delete", err)
	}
	return nil
}

// Consume HDEL 的删除计数保证并发时只有一个调用方成功
func (l *Ledger) Consume(ctx context.Context, principalID, sessionID string) (bool, error) {
	n, err := l.rdb.HDel(ctx, l.key(principalID), sessionID).Result()
	if err != nil {
		return false, ledger.NewStoreError("consume", err)
	}
	return n == 1, nil
}

func (l *Ledger) List(ctx context.Context, principalID string) ([]string, error) {
	ids, err := l.rdb.HKeys(ctx, l.key(principalID)).Result()
	if err != nil {
		return nil, ledger.NewStoreError("list", err)
	}
	return ids, nil
}

func (l *Ledger) DeleteAll(ctx context.Context, principalID string) error {
	if err := l.rdb.Del(ctx, l.key(principalID)).Err(); err != nil {
		return ledger.NewStoreError("delete_all", err)
	}
	return nil
}
