// Package ledgertest holds the behaviour every ledger.Ledger implementation
// must share.
package ledgertest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/passport/core/auth/ledger"
)

const (
	alice = "a11ce000000000000000000000000001"
	bob   = "b0b00000000000000000000000000002"
)

// Run exercises l against the ledger contract. newLedger must return an
// empty ledger on every call.
func Run(t *testing.T, newLedger func(t *testing.T) ledger.Ledger) {
	t.Run("TryCreateIsConditional", func(t *testing.T) {
		l, ctx := newLedger(t), context.Background()

		ok, err := l.TryCreate(ctx, alice, "s1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.TryCreate(ctx, alice, "s1")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = l.TryCreate(ctx, bob, "s1")
		require.NoError(t, err)
		assert.True(t, ok, "session ids are scoped per principal")
	})

	t.Run("Exists", func(t *testing.T) {
		l, ctx := newLedger(t), context.Background()

		ok, err := l.Exists(ctx, alice, "s1")
		require.NoError(t, err)
		assert.False(t, ok)

		mustCreate(t, l, alice, "s1")

		ok, err = l.Exists(ctx, alice, "s1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.Exists(ctx, bob, "s1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		l, ctx := newLedger(t), context.Background()
		mustCreate(t, l, alice, "s1")
		mustCreate(t, l, alice, "s2")

		require.NoError(t, l.Delete(ctx, alice, "s1"))
		require.NoError(t, l.Delete(ctx, alice, "s1"))
		require.NoError(t, l.Delete(ctx, bob, "missing"))

		ok, err := l.Exists(ctx, alice, "s1")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = l.Exists(ctx, alice, "s2")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ConsumeOnce", func(t *testing.T) {
		l, ctx := newLedger(t), context.Background()
		mustCreate(t, l, alice, "s1")

		ok, err := l.Consume(ctx, alice, "s1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.Consume(ctx, alice, "s1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ConcurrentConsume", func(t *testing.T) {
		l, ctx := newLedger(t), context.Background()
		mustCreate(t, l, alice, "s1")

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := l.Consume(ctx, alice, "s1")
				assert.NoError(t, err)
				if ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("ConcurrentTryCreate", func(t *testing.T) {
		l, ctx := newLedger(t), context.Background()

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := l.TryCreate(ctx, alice, "s1")
				assert.NoError(t, err)
				if ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("ListAndDeleteAll", func(t *testing.T) {
		l, ctx := newLedger(t), context.Background()

		ids, err := l.List(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, ids)

		for i := range 3 {
			mustCreate(t, l, alice, fmt.Sprintf("s%d", i))
		}
		mustCreate(t, l, bob, "s9")

		ids, err = l.List(ctx, alice)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"s0", "s1", "s2"}, ids)

		require.NoError(t, l.DeleteAll(ctx, alice))
		require.NoError(t, l.DeleteAll(ctx, alice))

		ids, err = l.List(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, ids)

		ok, err := l.Exists(ctx, bob, "s9")
		require.NoError(t, err)
		assert.True(t, ok, "other principals are untouched")
	})
}

func mustCreate(t *testing.T, l ledger.Ledger, principalID, sessionID string) {
	t.Helper()
	ok, err := l.TryCreate(context.Background(), principalID, sessionID)
	require.NoError(t, err)
	require.True(t, ok)
}
