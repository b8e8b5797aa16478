package tag

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionMock struct {
	Secret     string        `default:"-"`
	AccessTTL  time.Duration `default:"5m"`
	RefreshTTL time.Duration `default:"168h"`
	KeyPrefix  string        `default:"passport:session"`
	Redis      struct {
		Addrs    []string `default:"localhost:6379"`
		DB       int      `default:"0"`
		Protocol int      `default:"3"`
	}
	Debug    *bool `default:"true"`
	Backends []backendMock
	Primary  *backendMock
	Fallback *backendMock
}

type backendMock struct {
	Name    string  `default:"primary"`
	Weight  float64 `default:"1.5"`
	Retries uint8   `default:"3"`
}

func TestApplyDefaults(t *testing.T) {
	mock := &sessionMock{
		AccessTTL: time.Minute,
		Backends:  []backendMock{{Name: "replica"}},
		Primary:   &backendMock{},
	}

	require.NoError(t, ApplyDefaults(mock))

	assert.Equal(t, "-", mock.Secret)
	assert.Equal(t, time.Minute, mock.AccessTTL, "non-zero fields are kept")
	assert.Equal(t, 7*24*time.Hour, mock.RefreshTTL)
	assert.Equal(t, "passport:session", mock.KeyPrefix)
	assert.Equal(t, []string{"localhost:6379"}, mock.Redis.Addrs)
	assert.Equal(t, 3, mock.Redis.Protocol)
	require.NotNil(t, mock.Debug)
	assert.True(t, *mock.Debug)
	assert.Equal(t, "replica", mock.Backends[0].Name)
	assert.Equal(t, 1.5, mock.Backends[0].Weight)
	assert.Equal(t, uint8(3), mock.Backends[0].Retries)
	assert.Equal(t, "primary", mock.Primary.Name)
	assert.Nil(t, mock.Fallback, "nil struct pointers are not allocated")
}

func TestApplyDefaultsRejectsNonPointer(t *testing.T) {
	assert.ErrorIs(t, ApplyDefaults(sessionMock{}), ErrTargetMustBePointer)
	assert.ErrorIs(t, ApplyDefaults((*sessionMock)(nil)), ErrTargetMustBePointer)
}

func TestApplyDefaultsInvalidValue(t *testing.T) {
	type broken struct {
		TTL time.Duration `default:"five minutes"`
	}

	err := ApplyDefaults(&broken{})
	require.Error(t, err)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "TTL", fe.Path)
}
