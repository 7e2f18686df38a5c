// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/jfstream/internal/fsutil"
)

var filenamePattern = regexp.MustCompile(`filename=['"]?([^'"\s]+)['"]?`)

// DownloadedFile is a response body persisted to local storage. The caller
// owns it and must call Remove when done; nothing is deleted automatically.
type DownloadedFile struct {
	Path string
	Size int64

	// dir is the temporary directory created for a Content-Disposition
	// name; empty for anonymous files.
	dir string
}

// Name returns the file's base name.
func (f *DownloadedFile) Name() string {
	return filepath.Base(f.Path)
}

// Open opens the file for reading.
func (f *DownloadedFile) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Remove deletes the file and, when one was created for it, its directory.
// It is safe to call more than once and on a nil receiver.
func (f *DownloadedFile) Remove() error {
	if f == nil {
		return nil
	}
	var err error
	if f.dir != "" {
		err = os.RemoveAll(f.dir)
	} else {
		err = os.Remove(f.Path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// filenameFromDisposition extracts the first filename= token, or "".
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	m := filenamePattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return m[1]
}

// prepareDownloadFile picks the target path: a fresh directory holding the
// server-provided name, or an anonymous temp file.
func (c *Client) prepareDownloadFile(header http.Header) (*DownloadedFile, error) {
	if name := filenameFromDisposition(header.Get("Content-Disposition")); name != "" {
		dir, err := os.MkdirTemp(c.tempDir, "jfstream-")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		target, err := fsutil.ConfineRelPath(dir, name)
		if err == nil {
			err = os.MkdirAll(filepath.Dir(target), 0o750)
		}
		if err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("content-disposition filename %q: %w", name, err)
		}
		return &DownloadedFile{Path: target, dir: dir}, nil
	}

	f, err := os.CreateTemp(c.tempDir, "download-")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &DownloadedFile{Path: f.Name()}, nil
}

// materialize copies body into a new download file. The copy goes to a
// pending file that atomically replaces the target, so an existing file at
// that path is overwritten and a failed copy leaves nothing half-written.
func (c *Client) materialize(body io.Reader, header http.Header) (*DownloadedFile, error) {
	if body == nil {
		return nil, errors.New("response body is absent")
	}
	file, err := c.prepareDownloadFile(header)
	if err != nil {
		return nil, err
	}

	n, err := writeReplacing(file.Path, body)
	if err != nil {
		_ = file.Remove()
		return nil, err
	}
	file.Size = n
	return file, nil
}

func writeReplacing(path string, r io.Reader) (int64, error) {
	pending, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return 0, fmt.Errorf("open pending file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	n, err := io.Copy(pending, r)
	if err != nil {
		return n, fmt.Errorf("copy body: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return n, fmt.Errorf("replace %s: %w", path, err)
	}
	return n, nil
}
