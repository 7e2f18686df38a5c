// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	platformnet "github.com/ManuGH/jfstream/internal/platform/net"
)

// Validate checks a resolved configuration. All problems are reported at once.
func Validate(cfg AppConfig) error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: "+format, append([]any{field}, args...)...))
	}

	if err := platformnet.CheckServerURL(cfg.Server.BaseURL); err != nil {
		fail("server.baseUrl", "%v", err)
	}
	if cfg.Server.ReadTimeout < 0 {
		fail("server.readTimeout", "must not be negative, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Download.Concurrency < 1 {
		fail("download.concurrency", "must be at least 1, got %d", cfg.Download.Concurrency)
	}
	if cfg.Download.RequestsPerSecond < 0 {
		fail("download.requestsPerSecond", "must not be negative, got %v", cfg.Download.RequestsPerSecond)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		fail("log.level", "unknown level %q", cfg.Log.Level)
	}
	if f := strings.ToLower(cfg.Log.Format); f != "json" && f != "console" {
		fail("log.format", "must be json or console, got %q", cfg.Log.Format)
	}
	if cfg.Telemetry.Enabled {
		if e := cfg.Telemetry.ExporterType; e != "grpc" && e != "http" {
			fail("telemetry.exporter", "must be grpc or http, got %q", e)
		}
		if cfg.Telemetry.Endpoint == "" {
			fail("telemetry.endpoint", "required when telemetry is enabled")
		}
	}
	if r := cfg.Telemetry.SamplingRate; r < 0 || r > 1 {
		fail("telemetry.samplingRate", "must be within [0, 1], got %v", r)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
