package writer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeRotateWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := File(RotateConfig{Mode: RotateModeSize, Dir: dir, Filename: "passport", Ext: "log", MaxSizeMB: 1})
	require.NoError(t, err)

	_, err = w.Write([]byte("session created\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, "passport.log"))
	require.NoError(t, err)
	assert.Equal(t, "session created\n", string(data))
}

func TestTimeRotateWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := File(RotateConfig{Mode: RotateModeTime, Dir: dir, Filename: "passport", Ext: "log", MaxAge: 24 * time.Hour, RotationTime: time.Hour})
	require.NoError(t, err)

	_, err = w.Write([]byte("session revoked\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "passport.*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestUnsupportedMode(t *testing.T) {
	_, err := File(RotateConfig{Mode: "weekly"})
	assert.Error(t, err)
}
