// ABOUTME: Tests for config path resolution, config loading and the log handler

package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloka/nexus/internal/config"
)

func TestGetConfigPath(t *testing.T) {
	t.Setenv("ALOKA_CONFIG", "/etc/aloka.yaml")
	assert.Equal(t, "/etc/aloka.yaml", getConfigPath())

	t.Setenv("ALOKA_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "aloka", "config.yaml"), getConfigPath())
}

func TestGetDataPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/data", "aloka"), getDataPath())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ALOKA_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("ALOKA_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ALOKA_LOG_LEVEL", "")
	t.Setenv("ALOKA_STORAGE_PATH", "")
	t.Setenv("ALOKA_CATALOG", "")

	cfg, path, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "(defaults)", path)
	assert.Equal(t, config.DefaultStorageKey, cfg.Storage.Key)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))
	t.Setenv("ALOKA_CONFIG", path)
	t.Setenv("ALOKA_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ALOKA_STORAGE_PATH", "")
	t.Setenv("ALOKA_CATALOG", "")
	t.Setenv("ALOKA_LOG_LEVEL", "debug")

	cfg, got, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0644))
	t.Setenv("ALOKA_CONFIG", path)

	_, _, err := loadConfig()
	assert.ErrorContains(t, err, "logging.format")
}

func TestColorHandler(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	logger := slog.New(&colorHandler{out: &buf, mu: &sync.Mutex{}, level: slog.LevelInfo})

	logger.With("component", "session").Info("transition applied", "transition", "login")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "INF [session] transition applied transition=login")
	assert.NotContains(t, out, "component=")
	assert.NotContains(t, out, "hidden")
}
