package redis

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/passport/log"
)

// DebugHook 记录命令耗时与失败，超过阈值记为慢查询
// 只记录命令名，参数中的会话 ID 不落日志
type DebugHook struct {
	logger *log.Logger
	slow   time.Duration
}

var _ redis.Hook = (*DebugHook)(nil)

// NewDebugHook 创建调试 Hook，slow 为 0 时不检测慢查询
func NewDebugHook(logger *log.Logger, slow time.Duration) *DebugHook {
	return &DebugHook{logger: logger, slow: slow}
}

func (h *DebugHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.Error().Str("addr", addr).Dur("duration", time.Since(start)).Err(err).Msg("redis dial failed")
		}
		return conn, err
	}
}

func (h *DebugHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.observe([]string{cmd.FullName()}, time.Since(start), err)
		return err
	}
}

func (h *DebugHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		names := make([]string, len(cmds))
		for i, cmd := range cmds {
			names[i] = cmd.FullName()
		}
		h.observe(names, time.Since(start), err)
		return err
	}
}

func (h *DebugHook) observe(cmds []string, d time.Duration, err error) {
	switch {
	case err != nil && !errors.Is(err, redis.Nil):
		h.logger.Warn().Strs("cmds", cmds).Dur("duration", d).Err(err).Msg("redis command failed")
	case h.slow > 0 && d > h.slow:
		h.logger.Warn().Strs("cmds", cmds).Dur("duration", d).Dur("threshold", h.slow).Msg("slow redis command")
	default:
		h.logger.Debug().Strs("cmds", cmds).Dur("duration", d).Msg("redis command")
	}
}
