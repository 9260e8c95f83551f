package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty dir so no stray config.yaml is picked up.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 600, cfg.Memories.PollCeiling)
	assert.Equal(t, 10, cfg.Memories.PollInterval)
	assert.Equal(t, 5, cfg.Memories.PollErrInterval)
	assert.Equal(t, 50, cfg.Preflight.PassThreshold)
	assert.Equal(t, 30, cfg.Preflight.BorderlineThreshold)
	assert.Less(t, cfg.Preflight.BorderlineThreshold, cfg.Preflight.PassThreshold)
	assert.Equal(t, 60, cfg.Preflight.MinDurationSecs)
	assert.Equal(t, 3, cfg.Enrich.BatchSize)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("preflight:\n  pass_threshold: 70\nmemories:\n  poll_ceiling_secs: 120\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 70, cfg.Preflight.PassThreshold)
	assert.Equal(t, 120, cfg.Memories.PollCeiling)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep defaults.
	assert.Equal(t, 30, cfg.Preflight.BorderlineThreshold)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "shouty", Format: "json"}))
}
