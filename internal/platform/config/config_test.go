package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estudozen/internal/platform/config"
)

func TestNewDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "store"), cfg.KVPath)
	assert.Equal(t, filepath.Join(dir, "index", "sessions.db"), cfg.DBPath)
	assert.Equal(t, 1500, cfg.DefaultCountDownSeconds)
	assert.True(t, cfg.AutoDoNotDisturb)
	assert.Equal(t, "default", cfg.AlertPermission)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
}

func TestNewReadsConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "timer:\n  default_countdown_seconds: 3000\nalerts:\n  permission: granted\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("ESTUDOZEN_FOCUS_AUTO_DND", "false")

	cfg, err := config.New(dir)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.DefaultCountDownSeconds)
	assert.Equal(t, "granted", cfg.AlertPermission)
	assert.False(t, cfg.AutoDoNotDisturb)
}

func TestNewRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("alerts:\n  permission: maybe\n"), 0o644))
	_, err := config.New(dir)
	require.Error(t, err)
}
