package signature

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const principal = "6f1c2a4e9b7d4c0e8a3f5b2d1e0c9a87"

var issued = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newBinder(t *testing.T) *Binder {
	t.Helper()
	b, err := New("test-secret")
	require.NoError(t, err)
	return b
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

// Known answer for "<principal>-2024-03-01T12:00:00+00:00".
func TestDeriveKnownAnswer(t *testing.T) {
	b := newBinder(t)
	assert.Equal(t,
		"0ac8e68d8525dbfc55dac4fe4fc2e996aa27c2862376fb150ad70a21321e638c",
		b.Derive(principal, issued))
}

func TestDeriveIsDeterministic(t *testing.T) {
	b := newBinder(t)
	want := b.Derive(principal, issued)

	assert.Equal(t, want, b.Derive(principal, issued.Add(999*time.Millisecond)), "sub-second precision is dropped")
	assert.Equal(t, want, b.Derive(principal, issued.In(time.FixedZone("CST", 8*3600))), "zone is normalised to UTC")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, b.Derive(principal, issued))
		}()
	}
	wg.Wait()
}

func TestDeriveDistinguishesInputs(t *testing.T) {
	b := newBinder(t)
	base := b.Derive(principal, issued)

	assert.NotEqual(t, base, b.Derive("0000000000000000000000000000000a", issued))
	assert.NotEqual(t, base, b.Derive(principal, issued.Add(time.Second)))

	other, err := New("other-secret")
	require.NoError(t, err)
	assert.NotEqual(t, base, other.Derive(principal, issued))
}

func TestVerify(t *testing.T) {
	b := newBinder(t)
	sig := b.Derive(principal, issued)

	assert.True(t, b.Verify(principal, issued, sig))
	assert.False(t, b.Verify(principal, issued, strings.ToUpper(sig)))
	assert.False(t, b.Verify(principal, issued.Add(time.Second), sig))
	assert.False(t, b.Verify("0000000000000000000000000000000a", issued, sig))
	assert.False(t, b.Verify(principal, issued, sig[:len(sig)-2]))
	assert.False(t, b.Verify(principal, issued, "zz"+sig[2:]))
	assert.False(t, b.Verify(principal, issued, ""))
}
