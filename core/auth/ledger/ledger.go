package ledger

import (
	"context"
	"errors"
)

// ErrStore 匹配所有存储层失败，使用 errors.Is(err, ErrStore) 判断
var ErrStore = errors.New("ledger: store failure")

// Ledger 会话账本：主体 ID → 当前有效的会话 ID 集合
// 账本是会话存活的唯一依据，令牌过期只是次要校验
type Ledger interface {
	// TryCreate 条件插入，已存在时返回 false
	TryCreate(ctx context.Context, principalID, sessionID string) (bool, error)

	// Exists 查询会话是否存在
	Exists(ctx context.Context, principalID, sessionID string) (bool, error)

	// Delete 删除会话，幂等
	Delete(ctx context.Context, principalID, sessionID string) error

	// Consume 存在则删除并返回 true，并发调用中只有一个能得到 true
	Consume(ctx context.Context, principalID, sessionID string) (bool, error)

	// List 列出主体的全部会话 ID
	List(ctx context.Context, principalID string) ([]string, error)

	// DeleteAll 删除主体的全部会话
	DeleteAll(ctx context.Context, principalID string) error
}

// StoreError 存储层失败，Op 为失败的账本操作
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return "ledger: " + e.Op + ": store failure"
	}
	return "ledger: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// NewStoreError 包装存储层错误，err 为 nil 时返回 nil
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
