//go:build !windows

package storage

import "os"

func atomicRename(from, to string) error { return os.Rename(from, to) }
