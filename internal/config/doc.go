// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config resolves the CLI configuration from defaults, an optional
// strict YAML file and JFSTREAM_* environment variables, in that order of
// increasing precedence.
package config
