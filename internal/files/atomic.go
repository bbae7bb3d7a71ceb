package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oukeidos/aitag/internal/logger"
)

// AtomicWrite replaces path with data. Readers see either the old file or the complete new
// one, never a partial export.
func AtomicWrite(path string, data []byte, perms os.FileMode) error {
	if err := RejectSymlinkPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".aitag-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	steps := []struct {
		what string
		run  func() error
	}{
		{"set permissions on", func() error { return tmp.Chmod(perms) }},
		{"write", func() error { _, err := tmp.Write(data); return err }},
		{"sync", tmp.Sync},
		{"close", tmp.Close},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return fmt.Errorf("failed to %s temp file: %w", s.what, err)
		}
	}
	if err := replaceFile(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	committed = true

	if err := syncDir(dir); err != nil {
		logger.Warn("Directory sync failed after write", "path", dir, "error", err)
	}
	logger.Debug("Wrote file", "path", path, "bytes", len(data))
	return nil
}
