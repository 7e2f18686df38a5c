// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/jfstream/internal/log"
)

// EnvPrefix prefixes every environment key read by the loader.
const EnvPrefix = "JFSTREAM_"

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	return parseEnv(key, defaultValue, func(v string) (string, bool) { return v, true })
}

// ParseInt reads an integer from environment variable or returns default value.
// It validates the input and falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, func(v string) (int, bool) {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		return i, err == nil
	})
}

// ParseDuration reads a duration in Go duration format (e.g. "5s").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, func(v string) (time.Duration, bool) {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		return d, err == nil
	})
}

// ParseBool accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, func(v string) (bool, bool) {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
		return false, false
	})
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(v string) (float64, bool) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	})
}

// parseEnv implements the shared lookup: unset or empty keeps the default,
// unparsable values keep the default with a warning.
func parseEnv[T any](key string, defaultValue T, parse func(string) (T, bool)) T {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().
			Str("key", key).
			Interface("default", redact(key, defaultValue)).
			Str("source", "default").
			Msg("using default value")
		return defaultValue
	}
	parsed, ok := parse(v)
	if !ok {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Interface("default", redact(key, defaultValue)).
			Msg("invalid value in environment variable, using default")
		return defaultValue
	}
	logEnvSource(logger, key, parsed)
	return parsed
}

func logEnvSource(logger zerolog.Logger, key string, value any) {
	evt := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitive(key) {
		evt = evt.Bool("sensitive", true)
	} else {
		evt = evt.Interface("value", value)
	}
	evt.Msg("using environment variable")
}

func redact(key string, v any) any {
	if isSensitive(key) {
		return "***"
	}
	return v
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "token") || strings.Contains(lower, "password")
}
