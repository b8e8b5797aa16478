package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/passport/log"
)

type fakeServer struct {
	stop     chan struct{}
	once     sync.Once
	runErr   error
	shutdown bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{stop: make(chan struct{})}
}

func (s *fakeServer) Run() error {
	if s.runErr != nil {
		return s.runErr
	}
	<-s.stop
	return nil
}

func (s *fakeServer) Shutdown(context.Context) error {
	s.once.Do(func() {
		s.shutdown = true
		close(s.stop)
	})
	return nil
}

func quiet(opts ...Option) *App {
	return New(append([]Option{WithLogger(log.Nop()), WithSignals()}, opts...)...)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := newFakeServer()
	var order []string
	a := quiet(
		WithServer(srv, nil),
		WithCloser("redis", func(context.Context) error { order = append(order, "redis"); return nil }, 0),
		WithCloser("database", func(context.Context) error { order = append(order, "database"); return nil }, 0),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.True(t, srv.shutdown)
	assert.Equal(t, []string{"database", "redis"}, order)
	assert.ErrorIs(t, a.Run(context.Background()), ErrAlreadyStarted)
}

func TestRunServerFailure(t *testing.T) {
	boom := errors.New("listen: address in use")
	bad := &fakeServer{stop: make(chan struct{}), runErr: boom}
	good := newFakeServer()

	closed := false
	a := quiet(
		WithServer(bad, good),
		WithCloser("ledger", func(context.Context) error { closed = true; return nil }, 0),
	)

	err := a.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.True(t, good.shutdown)
	assert.True(t, closed)
}

func TestRunWithoutServers(t *testing.T) {
	a := quiet()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, a.Run(ctx))
}

func TestOnClose(t *testing.T) {
	a := quiet()
	require.Error(t, a.OnClose("nil", nil))

	called := false
	require.NoError(t, a.OnClose("late", func(context.Context) error { called = true; return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Run(ctx))
	assert.True(t, called)
	assert.ErrorIs(t, a.OnClose("after", func(context.Context) error { return nil }), ErrAlreadyStarted)
}

func TestCloserPanicAndTimeout(t *testing.T) {
	a := quiet(WithCloseTimeout(50 * time.Millisecond))

	err := a.runCloser(Closer{Name: "panic", Fn: func(context.Context) error { panic("boom") }})
	assert.ErrorIs(t, err, ErrClosePanic)

	start := time.Now()
	err = a.runCloser(Closer{Name: "slow", Fn: func(ctx context.Context) error {
		time.Sleep(time.Second)
		return nil
	}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
