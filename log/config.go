package log

import (
	"time"

	"github.com/kochabx/passport/log/writer"
)

// Config 日志配置
type Config struct {
	Level       string      `json:"level" mapstructure:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format      string      `json:"format" mapstructure:"format" default:"console" validate:"oneof=console json"`
	Caller      bool        `json:"caller" mapstructure:"caller"`
	Desensitize bool        `json:"desensitize" mapstructure:"desensitize" default:"true"`
	File        *FileConfig `json:"file" mapstructure:"file"`
}

// FileConfig 日志文件配置，为空时只输出到控制台
type FileConfig struct {
	Dir        string            `json:"dir" mapstructure:"dir" default:"log"`
	Filename   string            `json:"filename" mapstructure:"filename" default:"passport"`
	Ext        string            `json:"ext" mapstructure:"ext" default:"log"`
	RotateMode writer.RotateMode `json:"rotate_mode" mapstructure:"rotate_mode" default:"size" validate:"oneof=size time"`

	// 按时间轮转
	MaxAge       time.Duration `json:"max_age" mapstructure:"max_age" default:"24h"`
	RotationTime time.Duration `json:"rotation_time" mapstructure:"rotation_time" default:"1h"`

	// 按大小轮转
	MaxSizeMB  int  `json:"max_size_mb" mapstructure:"max_size_mb" default:"100"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups" default:"5"`
	MaxAgeDays int  `json:"max_age_days" mapstructure:"max_age_days" default:"30"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

func (c *FileConfig) rotateConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Mode:         c.RotateMode,
		Dir:          c.Dir,
		Filename:     c.Filename,
		Ext:          c.Ext,
		MaxAge:       c.MaxAge,
		RotationTime: c.RotationTime,
		MaxSizeMB:    c.MaxSizeMB,
		MaxBackups:   c.MaxBackups,
		MaxAgeDays:   c.MaxAgeDays,
		Compress:     c.Compress,
	}
}
