package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the diskreport home directory.
const HomeEnv = "DISKREPORT_HOME"

// GetHome returns the diskreport home directory
// Priority order:
//  1. DISKREPORT_HOME environment variable (if set)
//  2. ~/.diskreport
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	home := os.Getenv(HomeEnv)
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get user home directory: %w", err)
		}
		home = filepath.Join(userHome, ".diskreport")
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create diskreport home directory: %w", err)
	}
	return home, nil
}

// HistoryDBPath returns the default run history database path,
// $DISKREPORT_HOME/history/runs.db. The history directory is created.
func HistoryDBPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, "history")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create history directory: %w", err)
	}
	return filepath.Join(dir, "runs.db"), nil
}

// ResolveHistoryDBPath returns c.History.DBPath, or HistoryDBPath() when it
// is empty.
func (c *Config) ResolveHistoryDBPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}
	return HistoryDBPath()
}
