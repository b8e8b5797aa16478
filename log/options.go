package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/kochabx/passport/log/desensitize"
)

// Option Logger 选项函数
type Option func(*options)

type options struct {
	level  zerolog.Level
	caller bool
	hook   *desensitize.Hook
	out    io.Writer
}

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithCaller 记录调用位置
func WithCaller() Option {
	return func(o *options) {
		o.caller = true
	}
}

// WithDesensitize 写入前按规则脱敏
func WithDesensitize(hook *desensitize.Hook) Option {
	return func(o *options) {
		o.hook = hook
	}
}

// WithWriter 替换输出目标
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}
