package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Permissions for created directories and files.
const (
	dirPerm  = 0750
	filePerm = 0640
)

// tempPattern names in-progress files; the "~" suffix marks them as partial.
const tempPattern = ".sponge-*~"

// ErrNotDirectory is returned when an output path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// EnsureDir creates dir and its parents if needed.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", dir, ErrNotDirectory)
		}
		return nil
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// WriteFile copies r to path and returns the number of bytes written.
// Parent directories are created as needed. The file only appears at path
// once it has been written completely.
func WriteFile(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return 0, fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath) //nolint:errcheck // best effort cleanup of a partial file
		}
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close() //nolint:errcheck // the copy error is the one worth reporting
		return n, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close() //nolint:errcheck // the chmod error is the one worth reporting
		return n, fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return n, fmt.Errorf("moving file into place at %s: %w", path, err)
	}
	committed = true
	return n, nil
}
