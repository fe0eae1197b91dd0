package storage

import (
	"errors"
	"os"
)

// ErrWouldBlock signals that a non-blocking lock attempt failed because
// another process holds the lock.
var ErrWouldBlock = errors.New("file lock would block")

// ErrLocked is returned by Open when the drawing is open in another process.
var ErrLocked = errors.New("drawing is open in another process")

// LockPath is the lock artifact guarding a drawing file.
func LockPath(drawing string) string { return drawing + ".lock" }

// probeLock reports whether the lock at path is currently held by another
// process. A free lock is released again without removing the artifact.
func probeLock(path string) (held bool, err error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	f, err := acquireFileLock(path)
	if err != nil {
		if errors.Is(err, ErrWouldBlock) {
			return true, nil
		}
		return false, err
	}
	return false, unlockOnly(f)
}
