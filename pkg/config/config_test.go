package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return dir
}

func TestIsMissingFile(t *testing.T) {
	_, err := os.Open(filepath.Join(t.TempDir(), ".env"))
	require.Error(t, err)
	assert.True(t, isMissingFile(err))
	assert.True(t, isMissingFile(fmt.Errorf("read config: %w", err)))
	assert.False(t, isMissingFile(os.ErrPermission))
}

func TestLoadWithoutEnvFile(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "")
	t.Setenv("SUMMARY_CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.Summary.CacheTTL)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	// Empty values keep godotenv from exporting the file into the process.
	t.Setenv("PORT", "")
	t.Setenv("SUMMARY_CACHE_TTL", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9090\nSUMMARY_CACHE_TTL=2m\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.Summary.CacheTTL)
}
