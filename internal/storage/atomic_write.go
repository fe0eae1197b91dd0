package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// RenameError is returned by AtomicWriteFile when the final rename fails. The
// temporary file has already been removed when the caller sees it.
type RenameError struct {
	Err      error
	tempPath string
}

func (e RenameError) Error() string    { return e.Err.Error() }
func (e RenameError) TempPath() string { return e.tempPath }
func (e RenameError) Unwrap() error    { return e.Err }

// AtomicWriteFile writes data next to filename and renames it into place, so
// readers see either the old drawing or the new one.
func AtomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-drawing-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmp.Name()

	var ok bool
	defer func() {
		if ok {
			return
		}
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove temporary file", "path", name, "error", err)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file %q: %w", name, err)
	}
	if err := os.Chmod(name, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := atomicRename(name, filename); err != nil {
		return RenameError{Err: err, tempPath: name}
	}
	ok = true
	return nil
}
