//go:build windows

package files

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// replaceFile uses MoveFileEx so an existing export is overwritten in place.
func replaceFile(tmpPath, path string) error {
	from, err := windows.UTF16PtrFromString(tmpPath)
	if err != nil {
		return fmt.Errorf("invalid temp path: %w", err)
	}
	to, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}
	return windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}

// isReparsePoint covers junctions and mount points, which Lstat does not report as symlinks.
func isReparsePoint(path string) (bool, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0, nil
}

// Directory handles cannot be flushed on Windows; MOVEFILE_WRITE_THROUGH covers the rename.
func syncDir(string) error {
	return nil
}
