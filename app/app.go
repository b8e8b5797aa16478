package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kochabx/passport/log"
	"github.com/kochabx/passport/transport"
)

var (
	ErrAlreadyStarted = errors.New("app: already started")
	ErrClosePanic     = errors.New("app: closer panicked")
)

const (
	defaultShutdownTimeout = 15 * time.Second
	defaultCloseTimeout    = 5 * time.Second
)

// Closer 在所有服务停止后执行的资源释放函数
type Closer struct {
	Name    string
	Fn      func(context.Context) error
	Timeout time.Duration
}

// App 管理服务与资源的生命周期
type App struct {
	mu              sync.Mutex
	logger          *log.Logger
	signals         []os.Signal
	servers         []transport.Server
	closers         []Closer
	shutdownTimeout time.Duration
	closeTimeout    time.Duration
	started         bool
}

type Option func(*App)

// WithLogger 设置日志器
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSignals 设置触发优雅关闭的信号
func WithSignals(signals ...os.Signal) Option {
	return func(a *App) {
		a.signals = append([]os.Signal(nil), signals...)
	}
}

// WithShutdownTimeout 设置单个服务的关闭超时
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

// WithCloseTimeout 设置资源释放函数的默认超时
func WithCloseTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.closeTimeout = d
		}
	}
}

// WithServer 添加服务，nil 被忽略
func WithServer(servers ...transport.Server) Option {
	return func(a *App) {
		for _, s := range servers {
			if s != nil {
				a.servers = append(a.servers, s)
			}
		}
	}
}

// WithCloser 添加资源释放函数，timeout 为 0 时使用默认超时
func WithCloser(name string, fn func(context.Context) error, timeout time.Duration) Option {
	return func(a *App) {
		if fn != nil {
			a.closers = append(a.closers, Closer{Name: name, Fn: fn, Timeout: timeout})
		}
	}
}

func New(opts ...Option) *App {
	a := &App{
		logger:          log.G,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
		shutdownTimeout: defaultShutdownTimeout,
		closeTimeout:    defaultCloseTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnClose 在启动前追加资源释放函数
func (a *App) OnClose(name string, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("app: nil closer")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrAlreadyStarted
	}
	a.closers = append(a.closers, Closer{Name: name, Fn: fn})
	return nil
}

// Run 启动所有服务并阻塞，直到 ctx 取消、收到信号或任一服务异常退出；
// 随后关闭所有服务，再按注册的逆序执行资源释放函数
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	a.started = true
	servers := append([]transport.Server(nil), a.servers...)
	closers := append([]Closer(nil), a.closers...)
	a.mu.Unlock()

	if len(a.signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, a.signals...)
		defer stop()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, s := range servers {
		eg.Go(func() error {
			if err := s.Run(); err != nil {
				return fmt.Errorf("app: server: %w", err)
			}
			return nil
		})
		eg.Go(func() error {
			<-egCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout)
			defer cancel()
			return s.Shutdown(shutdownCtx)
		})
	}
	if len(servers) == 0 {
		eg.Go(func() error {
			<-egCtx.Done()
			return nil
		})
	}

	a.logger.Info().Int("servers", len(servers)).Msg("app started")
	err := eg.Wait()
	a.logger.Info().Msg("app stopping")

	a.runClosers(closers)
	return err
}

func (a *App) runClosers(closers []Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if err := a.runCloser(c); err != nil {
			a.logger.Error().Err(err).Str("closer", c.Name).Msg("close failed")
		}
	}
}

func (a *App) runCloser(c Closer) (err error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = a.closeTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", ErrClosePanic, r)
			}
		}()
		done <- c.Fn(ctx)
	}()

	select {
	case err = <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
