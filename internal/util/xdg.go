package util

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "mtrack"

// DataDir returns the directory holding the local database and log file,
// creating it if needed. XDG_DATA_HOME is honoured; the fallback is
// ~/.local/share/mtrack.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}

	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}
