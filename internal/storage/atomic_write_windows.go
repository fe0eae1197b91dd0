//go:build windows

package storage

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// atomicRename moves from over to, replacing any existing file.
func atomicRename(from, to string) error {
	src, err := windows.UTF16PtrFromString(from)
	if err != nil {
		return fmt.Errorf("failed to convert path to UTF16: %w", err)
	}
	dst, err := windows.UTF16PtrFromString(to)
	if err != nil {
		return fmt.Errorf("failed to convert path to UTF16: %w", err)
	}
	if err := windows.MoveFileEx(src, dst, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH); err != nil {
		return fmt.Errorf("MoveFileEx failed: %w", err)
	}
	return nil
}
