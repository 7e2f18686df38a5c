// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package version carries build metadata injected via ldflags:
//
//	-X github.com/ManuGH/jfstream/internal/version.Version=v0.2.0
package version

import "fmt"

var (
	// Version is the release tag of the build.
	Version = "v0.1.0"

	// Commit is the git short hash of the build.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders all three values on one line.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
