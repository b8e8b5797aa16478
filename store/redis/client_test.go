package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/passport/log"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := Single(mr.Addr())
	cfg.Protocol = 2
	client, err := New(context.Background(), cfg, append([]Option{WithLogger(log.Nop())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestConfigDefaultsAndMode(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.ApplyDefaults())
	assert.Equal(t, []string{"localhost:6379"}, cfg.Addrs)
	assert.Equal(t, 3, cfg.Protocol)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 512*time.Millisecond, cfg.MaxRetryBackoff)

	assert.Equal(t, "single", Single("a:1").Mode())
	assert.Equal(t, "cluster", Cluster("a:1", "b:1").Mode())
	assert.Equal(t, "sentinel", Sentinel("mymaster", "a:26379").Mode())
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Config{}).Validate(), ErrEmptyAddrs)
	assert.ErrorIs(t, (&Config{Addrs: []string{"a:1"}, ReadTimeout: -1}).Validate(), ErrInvalidTimeout)

	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClientCommands(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	rdb := client.UniversalClient()
	require.NoError(t, rdb.Set(ctx, "k", "v", time.Minute).Err())

	got, err := rdb.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	_, err = rdb.Get(ctx, "missing").Result()
	assert.ErrorIs(t, err, ErrNil)
}

func TestHealth(t *testing.T) {
	client, mr := newTestClient(t)

	status := client.Health(context.Background())
	assert.True(t, status.Healthy)
	assert.Empty(t, status.Error)

	mr.Close()
	status = client.Health(context.Background())
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.Error)
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := Single(addr)
	cfg.MaxRetries = -1
	cfg.DialTimeout = 200 * time.Millisecond
	_, err := New(context.Background(), cfg, WithLogger(log.Nop()))
	assert.Error(t, err)
}

func TestDebugHookLogsCommandNamesOnly(t *testing.T) {
	var buf bytes.Buffer
	mr := miniredis.RunT(t)
	cfg := Single(mr.Addr())
	cfg.Protocol = 2
	cfg.Debug = true

	client, err := New(context.Background(), cfg, WithLogger(log.New(log.WithWriter(&buf))))
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.UniversalClient().HSet(ctx, "passport:session:p1", "secret-session-id", "p1").Err())

	out := buf.String()
	assert.Contains(t, out, "hset")
	assert.NotContains(t, out, "secret-session-id")
}

func TestOpenTelemetryInstrumentation(t *testing.T) {
	cfg := &Config{Tracing: true, Metrics: true}
	assert.Len(t, cfg.Options(), 2)
	assert.Empty(t, (&Config{}).Options())

	mr := miniredis.RunT(t)
	cfg.Addrs = []string{mr.Addr()}
	cfg.Protocol = 2

	client, err := New(context.Background(), cfg, append(cfg.Options(), WithLogger(log.Nop()))...)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	rdb := client.UniversalClient()
	require.NoError(t, rdb.HSet(ctx, "passport:session:p1", "s1", "p1").Err())
	n, err := rdb.HDel(ctx, "passport:session:p1", "s1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, client.Ping(ctx))
}
