// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWithEnvBaseURL(t *testing.T) {
	t.Setenv("JFSTREAM_BASE_URL", "http://media:8096")

	cfg, err := NewLoader("", "1.0.0").Load()
	require.NoError(t, err)

	assert.Equal(t, "http://media:8096", cfg.Server.BaseURL)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultConcurrency, cfg.Download.Concurrency)
	assert.Equal(t, DefaultClientName, cfg.Server.ClientName)
	assert.Equal(t, "1.0.0", cfg.Server.ClientVersion)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.NotEmpty(t, cfg.Server.DeviceID)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadWithoutBaseURLFails(t *testing.T) {
	t.Setenv("JFSTREAM_BASE_URL", "")
	_, err := NewLoader("", "dev").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "server.baseUrl")
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
server:
  baseUrl: http://from-file:8096
  token: file-token
  readTimeout: 45s
download:
  concurrency: 2
  requestsPerSecond: 5
log:
  level: debug
telemetry:
  enabled: true
  exporter: http
  endpoint: collector:4318
metrics:
  listenAddr: ":9100"
`)
	t.Setenv("JFSTREAM_TOKEN", "env-token")
	t.Setenv("JFSTREAM_CONCURRENCY", "6")

	l := NewLoader(path, "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:8096", cfg.Server.BaseURL)
	assert.Equal(t, "env-token", cfg.Server.Token, "env beats file")
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 6, cfg.Download.Concurrency, "env beats file")
	assert.InDelta(t, 5.0, cfg.Download.RequestsPerSecond, 1e-9)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http", cfg.Telemetry.ExporterType)
	assert.Equal(t, "collector:4318", cfg.Telemetry.Endpoint)
	assert.Equal(t, ":9100", cfg.Metrics.ListenAddr)

	assert.Contains(t, l.ConsumedEnvKeys, "JFSTREAM_TOKEN")
	assert.Contains(t, l.ConsumedEnvKeys, "JFSTREAM_METRICS_LISTEN")
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, "config.yaml", "server:\n  baseUrl: http://media\n  apiKey: nope\n")
	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConfigField)
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, "config.yml", "server:\n  baseUrl: http://a\n---\nserver:\n  baseUrl: http://b\n")
	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMultipleDocuments)
}

func TestLoadRejectsNonYAML(t *testing.T) {
	path := writeConfig(t, "config.json", "{}")
	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only YAML supported")
}

func TestLoadEmptyFile(t *testing.T) {
	t.Setenv("JFSTREAM_BASE_URL", "https://media")
	path := writeConfig(t, "config.yaml", "")
	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, "https://media", cfg.Server.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), "dev").Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTempDirIsMadeAbsolute(t *testing.T) {
	t.Setenv("JFSTREAM_BASE_URL", "http://media")
	t.Setenv("JFSTREAM_TEMP_DIR", "relative/tmp")
	cfg, err := NewLoader("", "dev").Load()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.Download.TempDir))
}

func TestLoadOverrideWinsOverEnv(t *testing.T) {
	t.Setenv("JFSTREAM_BASE_URL", "http://env:8096")
	t.Setenv("JFSTREAM_CONCURRENCY", "2")

	cfg, err := NewLoader("", "dev").WithOverride(func(c *AppConfig) {
		c.Server.BaseURL = "http://flag:8096"
	}).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8096", cfg.Server.BaseURL)
	assert.Equal(t, 2, cfg.Download.Concurrency)
}
