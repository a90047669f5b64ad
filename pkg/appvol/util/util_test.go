package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScalar(t *testing.T) {
	assert.Equal(t, float32(0.15), NormalizeScalar(0.15442))
	assert.Equal(t, float32(0.16), NormalizeScalar(0.156))
	assert.Equal(t, float32(1), NormalizeScalar(0.999))
	assert.Equal(t, float32(0), NormalizeScalar(0))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	assert.False(t, FileExists(path))

	require.NoError(t, os.WriteFile(path, []byte("language: auto\n"), 0644))
	assert.True(t, FileExists(path))

	// directories don't count
	assert.False(t, FileExists(dir))
}

func TestEnsureDirExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested")

	require.NoError(t, EnsureDirExists(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// second call is a no-op
	require.NoError(t, EnsureDirExists(path))
}

func TestProcessNameSystemPID(t *testing.T) {
	name, err := ProcessName(0)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestProcessNameSelf(t *testing.T) {
	name, err := ProcessName(uint32(os.Getpid()))
	require.NoError(t, err)
	assert.NotEmpty(t, name)
}
