package files

import (
	"fmt"
	"os"
)

// OpenAppend opens path for appending, creating it with owner-only permissions.
// Symlinked paths are rejected.
func OpenAppend(path string) (*os.File, error) {
	if err := RejectSymlinkPath(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
