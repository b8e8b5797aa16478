package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/passport/log"
)

func TestDataSource(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.ApplyDefaults())

	dsn, err := cfg.DataSource()
	require.NoError(t, err)
	assert.Equal(t, "file:passport.db?_journal_mode=WAL&_busy_timeout=5000", dsn)

	cfg.Driver = DriverPostgres
	dsn, err = cfg.DataSource()
	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=passport sslmode=disable TimeZone=UTC", dsn)

	cfg.Driver = DriverMySQL
	dsn, err = cfg.DataSource()
	require.NoError(t, err)
	assert.Equal(t, "root:@tcp(localhost:3306)/passport?charset=utf8mb4&parseTime=true&loc=UTC", dsn)

	cfg.DSN = "custom"
	dsn, err = cfg.DataSource()
	require.NoError(t, err)
	assert.Equal(t, "custom", dsn)

	_, err = (&Config{Driver: "oracle"}).DataSource()
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestSQLiteClient(t *testing.T) {
	cfg := &Config{Driver: DriverSQLite, SQLite: SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")}}
	client, err := New(context.Background(), cfg, WithLogger(log.Nop()))
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, DriverSQLite, client.Driver())
	require.NoError(t, client.Ping(context.Background()))

	var one int
	require.NoError(t, client.DB().Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
