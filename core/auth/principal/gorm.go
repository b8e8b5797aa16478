package principal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GormDirectory 基于 GORM 的主体目录
type GormDirectory struct {
	db *gorm.DB
}

var _ Directory = (*GormDirectory)(nil)

// NewGormDirectory 创建目录
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// Migrate 同步表结构
func (d *GormDirectory) Migrate(ctx context.Context) error {
	return d.db.WithContext(ctx).AutoMigrate(&Principal{})
}

func (d *GormDirectory) Get(ctx context.Context, id string) (*Principal, error) {
	return d.first(ctx, "id = ?", id)
}

func (d *GormDirectory) GetByUsername(ctx context.Context, username string) (*Principal, error) {
	return d.first(ctx, "username = ?", username)
}

func (d *GormDirectory) first(ctx context.Context, query string, arg any) (*Principal, error) {
	var p Principal
	err := d.db.WithContext(ctx).Where(query, arg).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("principal: query: %w", err)
	}
	return &p, nil
}

func (d *GormDirectory) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res := d.db.WithContext(ctx).Model(&Principal{}).Where("id = ?", id).Update("last_login", at.UTC())
	if res.Error != nil {
		return fmt.Errorf("principal: touch last login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Create 新增主体，ID 为空时自动生成
func (d *GormDirectory) Create(ctx context.Context, p *Principal) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	var count int64
	if err := d.db.WithContext(ctx).Unscoped().Model(&Principal{}).Where("username = ?", p.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("principal: create: %w", err)
	}
	if count > 0 {
		return ErrDuplicateName
	}
	if err := d.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("principal: create: %w", err)
	}
	return nil
}

// Delete 软删除主体
func (d *GormDirectory) Delete(ctx context.Context, id string) error {
	res := d.db.WithContext(ctx).Delete(&Principal{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("principal: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
