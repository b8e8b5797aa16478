package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/passport/core/tag"
	"github.com/kochabx/passport/log/desensitize"
	"github.com/kochabx/passport/log/writer"
)

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func build(w io.Writer, opts ...Option) *Logger {
	o := &options{level: zerolog.DebugLevel, out: w}
	for _, opt := range opts {
		opt(o)
	}

	out := o.out
	if o.hook != nil {
		out = desensitize.NewWriter(out, o.hook)
	}

	ctx := zerolog.New(out).Level(o.level).With().Timestamp()
	if o.caller {
		ctx = ctx.Caller()
	}
	return &Logger{Logger: ctx.Logger()}
}

// New 创建输出到控制台的 Logger
func New(opts ...Option) *Logger {
	return build(writer.Console(), opts...)
}

// NewFile 创建输出到文件的 Logger
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	fw, err := writer.File(c.rotateConfig())
	if err != nil {
		return nil, err
	}
	l := build(fw, opts...)
	l.closer = fw
	return l, nil
}

// NewMulti 创建同时输出到文件和控制台的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	fw, err := writer.File(c.rotateConfig())
	if err != nil {
		return nil, err
	}
	l := build(zerolog.MultiLevelWriter(fw, writer.Console()), opts...)
	l.closer = fw
	return l, nil
}

// NewFromConfig 按配置创建 Logger
// json 格式输出到标准输出，配置了文件时同时写文件
func NewFromConfig(c Config) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	opts := []Option{WithLevel(level)}
	if c.Caller {
		opts = append(opts, WithCaller())
	}
	if c.Desensitize {
		opts = append(opts, WithDesensitize(desensitize.NewHook(desensitize.BuiltinRules()...)))
	}

	var console io.Writer = writer.Console()
	if c.Format == "json" {
		console = zerolog.SyncWriter(stdout)
	}

	if c.File == nil {
		return build(console, opts...), nil
	}

	fw, err := writer.File(c.File.rotateConfig())
	if err != nil {
		return nil, err
	}
	l := build(zerolog.MultiLevelWriter(fw, console), opts...)
	l.closer = fw
	return l, nil
}
