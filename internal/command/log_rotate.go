package command

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// rotatingFile is the JSON log sink. Once the file would grow past maxBytes
// it is renamed to <path>.1, older backups shift up by one, and backups past
// keep are removed. A write is never split across two files.
type rotatingFile struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	keep     int
	size     int64
	f        *os.File
}

var _ io.WriteCloser = (*rotatingFile)(nil)

// openRotatingFile opens path for appending, creating it and its directory.
// maxSizeMB is clamped to at least 1 and keep to at least 0.
func openRotatingFile(path string, maxSizeMB, keep int) (*rotatingFile, error) {
	maxSizeMB = max(maxSizeMB, 1)
	keep = max(keep, 0)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &rotatingFile{
		path:     path,
		maxBytes: int64(maxSizeMB) << 20,
		keep:     keep,
		size:     fi.Size(),
		f:        f,
	}, nil
}

func (w *rotatingFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.maxBytes {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating %s: %w", w.path, err)
		}
	}
	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *rotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// rotate must be called with mu held.
func (w *rotatingFile) rotate() error {
	if err := w.f.Close(); err != nil {
		return err
	}
	w.f = nil

	backups := w.backups()
	slices.Reverse(backups)
	for _, n := range backups {
		if n >= w.keep {
			_ = os.Remove(w.backup(n))
			continue
		}
		_ = os.Rename(w.backup(n), w.backup(n+1))
	}
	if w.keep > 0 {
		_ = os.Rename(w.path, w.backup(1))
	} else {
		_ = os.Remove(w.path)
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	w.f = f
	w.size = 0
	return nil
}

func (w *rotatingFile) backup(n int) string {
	return w.path + "." + strconv.Itoa(n)
}

// backups returns the existing backup numbers in ascending order.
func (w *rotatingFile) backups() []int {
	entries, err := os.ReadDir(filepath.Dir(w.path))
	if err != nil {
		return nil
	}
	prefix := filepath.Base(w.path) + "."
	var nums []int
	for _, e := range entries {
		suffix, ok := strings.CutPrefix(e.Name(), prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n >= 1 {
			nums = append(nums, n)
		}
	}
	slices.Sort(nums)
	return nums
}
