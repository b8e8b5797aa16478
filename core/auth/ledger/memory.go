package ledger

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryOption 内存账本选项
type MemoryOption func(*Memory)

// WithMemoryClock 设置时钟
func WithMemoryClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithMemoryTTL 设置主体条目的过期时间，每次插入时重置，0 表示不过期
func WithMemoryTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) {
		m.ttl = max(ttl, 0)
	}
}

type bucket struct {
	sessions  map[string]string
	expiresAt time.Time
}

// Memory 进程内账本，用于测试与单实例部署
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	clock   func() time.Time
}

var _ Ledger = (*Memory)(nil)

// NewMemory 创建内存账本
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		buckets: make(map[string]*bucket),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// live 返回未过期的条目，过期条目会被回收，调用方需持有锁
func (m *Memory) live(principalID string) *bucket {
	b, ok := m.buckets[principalID]
	if !ok {
		return nil
	}
	if !b.expiresAt.IsZero() && !m.clock().Before(b.expiresAt) {
		delete(m.buckets, principalID)
		return nil
	}
	return b
}

func (m *Memory) TryCreate(ctx context.Context, principalID, sessionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, NewStoreError("try_create", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.live(principalID)
	if b == nil {
		b = &bucket{sessions: make(map[string]string)}
		m.buckets[principalID] = b
	}
	if m.ttl > 0 {
		b.expiresAt = m.clock().Add(m.ttl)
	}
	if _, ok := b.sessions[sessionID]; ok {
		return false, nil
	}
	b.sessions[sessionID] = principalID
	return true, nil
}

func (m *Memory) Exists(ctx context.Context, principalID, sessionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, NewStoreError("exists", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.live(principalID)
	if b == nil {
		return false, nil
	}
	_, ok := b.sessions[sessionID]
	return ok, nil
}

func (m *Memory) Delete(ctx context.Context, principalID, sessionID string) error {
	_, err := m.remove(ctx, "delete", principalID, sessionID)
	return err
}

func (m *Memory) Consume(ctx context.Context, principalID, sessionID string) (bool, error) {
	return m.remove(ctx, "consume", principalID, sessionID)
}

func (m *Memory) remove(ctx context.Context, op, principalID, sessionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, NewStoreError(op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.live(principalID)
	if b == nil {
		return false, nil
	}
	if _, ok := b.sessions[sessionID]; !ok {
		return false, nil
	}
	delete(b.sessions, sessionID)
	if len(b.sessions) == 0 {
		delete(m.buckets, principalID)
	}
	return true, nil
}

func (m *Memory) List(ctx context.Context, principalID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStoreError("list", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.live(principalID)
	if b == nil {
		return []string{}, nil
	}
	ids := make([]string, 0, len(b.sessions))
	for id := range b.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *Memory) DeleteAll(ctx context.Context, principalID string) error {
	if err := ctx.Err(); err != nil {
		return NewStoreError("delete_all", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets, principalID)
	return nil
}
