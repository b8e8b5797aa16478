package principal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("principal: not found")
	ErrDuplicateName = errors.New("principal: username already exists")
)

// Principal 可认证的主体
type Principal struct {
	ID           string         `gorm:"primaryKey;size:32" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash string         `gorm:"column:password;size:255;not null" json:"-"`
	FullName     string         `gorm:"size:255" json:"full_name"`
	IsSuperuser  bool           `gorm:"not null;default:false" json:"is_superuser"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 表名
func (Principal) TableName() string {
	return "users"
}

// NewID 生成主体 ID，32 位小写十六进制，不含连字符
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Directory 主体目录，只返回未删除的主体
type Directory interface {
	// Get 按 ID 查询，不存在返回 ErrNotFound
	Get(ctx context.Context, id string) (*Principal, error)

	// GetByUsername 按用户名查询，不存在返回 ErrNotFound
	GetByUsername(ctx context.Context, username string) (*Principal, error)

	// TouchLastLogin 更新最后登录时间
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
