package log

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var stdout = os.Stdout

// G 全局日志实例
var G = New(WithLevel(zerolog.InfoLevel))

// SetGlobalLogger 设置全局日志记录器
func SetGlobalLogger(logger *Logger) {
	if logger != nil {
		G = logger
	}
}

// Nop 丢弃全部输出，供测试与未注入日志的组件使用
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Debug 返回 debug 级别的日志事件
func Debug() *zerolog.Event {
	return G.Debug()
}

// Info 返回 info 级别的日志事件
func Info() *zerolog.Event {
	return G.Info()
}

// Warn 返回 warn 级别的日志事件
func Warn() *zerolog.Event {
	return G.Warn()
}

// Error 返回 error 级别的日志事件（带堆栈）
func Error() *zerolog.Event {
	return G.Error().Stack()
}

// Fatal 返回 fatal 级别的日志事件（带堆栈）
func Fatal() *zerolog.Event {
	return G.Fatal().Stack()
}

// SetLevel 设置全局级别，对所有 Logger 生效，不能低于 Logger 自身的级别
func SetLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(l)
	return nil
}
