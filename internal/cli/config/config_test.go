package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into a scratch directory for the duration of a test
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}

func TestDefaults(t *testing.T) {
	chdir(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "error", cfg.Lint.FailOn)
	assert.Equal(t, "json", cfg.Convert.Format)
	assert.True(t, cfg.Convert.Merge)
}

func TestLoadFromFile(t *testing.T) {
	dir := chdir(t)
	content := "strict: false\nlint:\n  fail_on: warning\nconvert:\n  format: yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hedl.yml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "warning", cfg.Lint.FailOn)
	assert.Equal(t, "yaml", cfg.Convert.Format)
}

func TestInvalidValuesRejected(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hedl.yml"), []byte("lint:\n  fail_on: fatal\n"), 0o644))
	_, err := Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hedl.yml"), []byte("convert:\n  format: toml\n"), 0o644))
	_, err = Load()
	assert.Error(t, err)
}
