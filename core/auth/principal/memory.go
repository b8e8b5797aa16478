package principal

import (
	"context"
	"sync"
	"time"
)

// Memory 进程内主体目录，用于测试
type Memory struct {
	mu         sync.RWMutex
	principals map[string]*Principal
}

var _ Directory = (*Memory)(nil)

// NewMemory 创建目录
func NewMemory(principals ...*Principal) *Memory {
	m := &Memory{principals: make(map[string]*Principal, len(principals))}
	for _, p := range principals {
		m.Put(p)
	}
	return m
}

// Put 新增或替换主体，ID 为空时自动生成
func (m *Memory) Put(p *Principal) {
	if p.ID == "" {
		p.ID = NewID()
	}
	cp := *p

	m.mu.Lock()
	defer m.mu.Unlock()
	m.principals[p.ID] = &cp
}

// Create 新增主体，用户名已存在时返回 ErrDuplicateName
func (m *Memory) Create(_ context.Context, p *Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.principals {
		if existing.Username == p.Username {
			return ErrDuplicateName
		}
	}
	if p.ID == "" {
		p.ID = NewID()
	}
	cp := *p
	m.principals[p.ID] = &cp
	return nil
}

// Delete 删除主体
func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.principals, id)
}

func (m *Memory) Get(_ context.Context, id string) (*Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.principals[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) GetByUsername(_ context.Context, username string) (*Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.principals {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.principals[id]
	if !ok {
		return ErrNotFound
	}
	at = at.UTC()
	p.LastLogin = &at
	return nil
}
