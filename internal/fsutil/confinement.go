// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package fsutil keeps server-provided names inside the directories we own.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesRoot is returned when a name would resolve outside its root.
var ErrEscapesRoot = errors.New("path escapes root")

// ConfineRelPath joins root and relTarget and verifies that the result stays
// physically underneath the resolved root, following symlinks on the way.
// relTarget must be relative and must not contain backslashes.
func ConfineRelPath(root, relTarget string) (string, error) {
	if relTarget == "" {
		return "", fmt.Errorf("empty target path")
	}
	if strings.Contains(relTarget, "\\") {
		return "", fmt.Errorf("path contains backslash: %s", relTarget)
	}

	cleanRel := filepath.Clean(relTarget)
	if filepath.IsAbs(cleanRel) {
		return "", fmt.Errorf("target path must be relative: %s", relTarget)
	}
	// Segment-based so "..foo.ts" is still a legal file name.
	if cleanRel == "." || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrEscapesRoot, relTarget)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid root path: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	return resolveAndCheck(realRoot, filepath.Join(realRoot, cleanRel))
}

// resolveAndCheck resolves symlinks on fullPath (or on its parent when the
// file does not exist yet) and ensures the result is within realRoot.
func resolveAndCheck(realRoot, fullPath string) (string, error) {
	var realPath string
	if _, err := os.Lstat(fullPath); err == nil {
		rp, err := filepath.EvalSymlinks(fullPath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path: %w", err)
		}
		realPath = rp
	} else {
		dir := filepath.Dir(fullPath)
		if rp, err := filepath.EvalSymlinks(dir); err == nil {
			realPath = filepath.Join(rp, filepath.Base(fullPath))
		} else {
			if _, statErr := os.Stat(dir); statErr == nil {
				// parent exists but cannot be resolved: fail closed
				return "", fmt.Errorf("failed to resolve parent path: %w", err)
			}
			realPath = fullPath
		}
	}

	rel, err := filepath.Rel(realRoot, realPath)
	if err != nil {
		return "", fmt.Errorf("rel computation failed: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w via symlinks: %s", ErrEscapesRoot, realPath)
	}
	return realPath, nil
}
