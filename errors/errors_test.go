package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(401, "token is invalid or expired")
	assert.Equal(t, 401, err.GetCode())
	assert.Equal(t, "token is invalid or expired", err.GetMessage())
	assert.Equal(t, "code=401, message=token is invalid or expired", err.Error())

	formatted := New(500, "ledger %s failed", "hset")
	assert.Equal(t, "ledger hset failed", formatted.GetMessage())
}

func TestWithMetadata(t *testing.T) {
	err := Unauthorized("unauthorized")

	assert.Same(t, err, err.WithMetadata(map[string]string{}))

	withMeta := err.WithMetadata(map[string]string{"op": "refresh"})
	assert.NotSame(t, err, withMeta)
	assert.Nil(t, err.GetMetadata())
	assert.Equal(t, map[string]string{"op": "refresh"}, withMeta.GetMetadata())
}

func TestWithCauseKeepsIdentity(t *testing.T) {
	sentinel := InternalServer("could not create session")
	cause := errors.New("connection refused")

	err := sentinel.WithCause(cause)
	assert.NotSame(t, sentinel, err)
	assert.Nil(t, sentinel.GetCause())
	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "cause=connection refused")
}

func TestIsComparesCodeAndMessage(t *testing.T) {
	a := Unauthorized("you are not authenticated")
	b := Unauthorized("you are not authenticated")
	c := Unauthorized("token is invalid or expired")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
	assert.True(t, errors.Is(fmt.Errorf("login: %w", a), b))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	plain := errors.New("boom")
	converted := FromError(plain)
	require.NotNil(t, converted)
	assert.Equal(t, UnknownCode, converted.GetCode())
	assert.True(t, errors.Is(converted, plain))

	coded := NotFound("principal not found")
	assert.Same(t, coded, FromError(fmt.Errorf("lookup: %w", coded)))
}

func TestCode(t *testing.T) {
	assert.Equal(t, 0, Code(nil))
	assert.Equal(t, UnknownCode, Code(errors.New("plain")))
	assert.Equal(t, 409, Code(fmt.Errorf("wrapped: %w", Conflict("exists"))))
	assert.True(t, IsClientError(Unauthorized("x")))
	assert.False(t, IsClientError(InternalServer("x")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, 503, "unavailable"))

	cause := errors.New("dial tcp: timeout")
	err := Wrap(cause, 503, "ledger unavailable")
	assert.Equal(t, 503, err.GetCode())
	assert.Same(t, cause, err.GetCause())
}

func BenchmarkErrorString(b *testing.B) {
	err := InternalServer("could not create session").
		WithMetadata(map[string]string{"principal": "u1"}).
		WithCause(errors.New("hsetnx: timeout"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = err.Error()
	}
}
