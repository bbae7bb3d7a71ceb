//go:build !windows

package files

import "os"

func replaceFile(tmpPath, path string) error {
	return os.Rename(tmpPath, path)
}

// Symlinks are caught by Lstat; there is no separate reparse concept.
func isReparsePoint(string) (bool, error) {
	return false, nil
}

// syncDir makes a completed rename durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
