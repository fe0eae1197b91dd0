//go:build windows

package storage

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// acquireFileLock takes an exclusive, non-blocking LockFileEx lock on the
// first byte of path, creating the file if needed.
var acquireFileLock = func(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	var ov windows.Overlapped
	err = windows.LockFileEx(
		windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0, 1, 0, &ov,
	)
	if err != nil {
		_ = f.Close()
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return nil, ErrWouldBlock
		}
		return nil, fmt.Errorf("LockFileEx failed: %w", err)
	}
	return f, nil
}

// unlockOnly drops the lock and closes the handle, leaving the file.
func unlockOnly(f *os.File) error {
	var ov windows.Overlapped
	err := windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, &ov)
	if err != nil {
		err = fmt.Errorf("UnlockFileEx failed: %w", err)
	}
	return errors.Join(err, f.Close())
}

// releaseFileLock drops the lock and removes the lock file. The handle must
// be closed first on Windows or the removal fails.
func releaseFileLock(f *os.File) error {
	if f == nil {
		return nil
	}
	path := f.Name()
	err := unlockOnly(f)
	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		err = errors.Join(err, rmErr)
	}
	return err
}
