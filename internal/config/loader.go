// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // every env key the loader looked at
	override        func(*AppConfig)
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// WithOverride registers fn to run after the environment layer and before
// validation. The CLI applies its flags this way.
func (l *Loader) WithOverride(fn func(*AppConfig)) *Loader {
	l.override = fn
	return l
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseString(EnvPrefix+key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseBool(EnvPrefix+key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseInt(EnvPrefix+key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseDuration(EnvPrefix+key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseFloat(EnvPrefix+key, defaultVal)
}

// Load loads configuration with precedence: override > ENV > File > Defaults,
// then validates.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults(l.version)

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	l.mergeEnvConfig(&cfg)
	if l.override != nil {
		l.override(&cfg)
	}
	cfg.Version = l.version

	if cfg.Download.TempDir != "" {
		if abs, err := filepath.Abs(cfg.Download.TempDir); err == nil {
			cfg.Download.TempDir = abs
		}
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrMultipleDocuments
	}
	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, f *FileConfig) {
	if s := f.Server; s != nil {
		setString(&cfg.Server.BaseURL, s.BaseURL)
		setString(&cfg.Server.Token, s.Token)
		setString(&cfg.Server.DeviceID, s.DeviceID)
		setString(&cfg.Server.DeviceName, s.DeviceName)
		setString(&cfg.Server.ClientName, s.ClientName)
		setString(&cfg.Server.ClientVersion, s.ClientVersion)
		if s.ReadTimeout != nil {
			cfg.Server.ReadTimeout = *s.ReadTimeout
		}
	}
	if d := f.Download; d != nil {
		setString(&cfg.Download.TempDir, d.TempDir)
		setString(&cfg.Download.OutputDir, d.OutputDir)
		if d.Concurrency != 0 {
			cfg.Download.Concurrency = d.Concurrency
		}
		if d.RequestsPerSecond != nil {
			cfg.Download.RequestsPerSecond = *d.RequestsPerSecond
		}
	}
	if lg := f.Log; lg != nil {
		setString(&cfg.Log.Level, lg.Level)
		setString(&cfg.Log.Format, lg.Format)
	}
	if t := f.Telemetry; t != nil {
		if t.Enabled != nil {
			cfg.Telemetry.Enabled = *t.Enabled
		}
		setString(&cfg.Telemetry.ExporterType, t.Exporter)
		setString(&cfg.Telemetry.Endpoint, t.Endpoint)
		setString(&cfg.Telemetry.Environment, t.Environment)
		if t.SamplingRate != nil {
			cfg.Telemetry.SamplingRate = *t.SamplingRate
		}
	}
	if m := f.Metrics; m != nil {
		setString(&cfg.Metrics.ListenAddr, m.ListenAddr)
	}
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.Server.BaseURL = l.envString("BASE_URL", cfg.Server.BaseURL)
	cfg.Server.Token = l.envString("TOKEN", cfg.Server.Token)
	cfg.Server.DeviceID = l.envString("DEVICE_ID", cfg.Server.DeviceID)
	cfg.Server.DeviceName = l.envString("DEVICE_NAME", cfg.Server.DeviceName)
	cfg.Server.ClientName = l.envString("CLIENT_NAME", cfg.Server.ClientName)
	cfg.Server.ClientVersion = l.envString("CLIENT_VERSION", cfg.Server.ClientVersion)
	cfg.Server.ReadTimeout = l.envDuration("READ_TIMEOUT", cfg.Server.ReadTimeout)

	cfg.Download.TempDir = l.envString("TEMP_DIR", cfg.Download.TempDir)
	cfg.Download.OutputDir = l.envString("OUTPUT_DIR", cfg.Download.OutputDir)
	cfg.Download.Concurrency = l.envInt("CONCURRENCY", cfg.Download.Concurrency)
	cfg.Download.RequestsPerSecond = l.envFloat("RATE_LIMIT", cfg.Download.RequestsPerSecond)

	cfg.Log.Level = l.envString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = l.envString("LOG_FORMAT", cfg.Log.Format)

	cfg.Telemetry.Enabled = l.envBool("TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.ExporterType = l.envString("OTLP_EXPORTER", cfg.Telemetry.ExporterType)
	cfg.Telemetry.Endpoint = l.envString("OTLP_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.Environment = l.envString("ENVIRONMENT", cfg.Telemetry.Environment)
	cfg.Telemetry.SamplingRate = l.envFloat("TRACE_SAMPLING", cfg.Telemetry.SamplingRate)

	cfg.Metrics.ListenAddr = l.envString("METRICS_LISTEN", cfg.Metrics.ListenAddr)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
