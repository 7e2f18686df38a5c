// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/jfstream/internal/streaming"
)

// deliver prints where the payload ended up. With --output the file is moved
// there and the temp copy removed; otherwise the caller owns the temp file.
func (a *app) deliver(resp *streaming.Response[*streaming.DownloadedFile]) error {
	file := resp.Data
	if file == nil {
		return a.printHead(resp.StatusCode, resp.Header)
	}
	if a.outputPath == "" {
		_, err := fmt.Fprintf(a.stdout, "%s\t%d\n", file.Path, file.Size)
		return err
	}
	defer func() { _ = file.Remove() }()

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if dir := filepath.Dir(a.outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	pending, err := renameio.TempFile(filepath.Dir(a.outputPath), a.outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = pending.Cleanup() }()
	n, err := io.Copy(pending, src)
	if err != nil {
		return fmt.Errorf("write %s: %w", a.outputPath, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "%s\t%d\n", a.outputPath, n)
	return err
}

// printHead prints the status line and headers of a response without body.
func (a *app) printHead(status int, header http.Header) error {
	if _, err := fmt.Fprintf(a.stdout, "%d %s\n", status, http.StatusText(status)); err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(header)) {
		for _, v := range header[k] {
			if _, err := fmt.Fprintf(a.stdout, "%s: %s\n", k, v); err != nil {
				return err
			}
		}
	}
	return nil
}
