package session

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/passport/core/auth/ledger"
	"github.com/kochabx/passport/core/auth/principal"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.recordCreated()
	m.recordRejection(opValidate)

	m = NewMetrics(nil)
	m.recordRevoked(scopeAll)
	assert.False(t, m.enabled)
}

func TestServiceMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &principal.Principal{ID: "u1", Username: "alice"}
	svc, err := New("test-secret", ledger.NewMemory(), principal.NewMemory(user),
		WithMetrics(m),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, user)
	require.NoError(t, err)

	now = now.Add(time.Second)
	next, err := svc.RefreshSession(ctx, sess.RefreshToken)
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, sess.AccessToken)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	_, err = svc.RefreshSession(ctx, next.AccessToken)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	require.NoError(t, svc.RevokeSession(ctx, next.AccessToken))
	now = now.Add(time.Second)
	_, err = svc.CreateSession(ctx, user)
	require.NoError(t, err)
	require.NoError(t, svc.RevokeAll(ctx, "u1"))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.created))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.revoked.WithLabelValues(scopeSingle)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.revoked.WithLabelValues(scopeAll)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues(opValidate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues(opRefresh)))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}
