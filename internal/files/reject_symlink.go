// Package files guards the paths aitag writes to: log files, exports and the workspace database.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RejectSymlinkPath fails if path, or any existing directory above it, is a symlink or reparse point.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for _, p := range ancestry(abs) {
		info, err := os.Lstat(p)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to access path: %w", err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to write through symlink %s (in %s)", p, path)
		}
		reparse, err := isReparsePoint(p)
		if err != nil {
			return fmt.Errorf("failed to check reparse point: %w", err)
		}
		if reparse {
			return fmt.Errorf("refusing to write through reparse point %s (in %s)", p, path)
		}
	}
	return nil
}

// ancestry lists abs and its parents from the root down, excluding the root itself.
func ancestry(abs string) []string {
	var chain []string
	for p := abs; ; {
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		chain = append(chain, p)
		p = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
