// Package storage provides persistent storage for user preferences and game statistics.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName = "tilechess"

	// DataDirEnv overrides the platform data directory.
	DataDirEnv = "TILECHESS_DATA_DIR"
)

// DataDir returns the directory holding preferences and statistics,
// creating it if needed. DataDirEnv wins over the platform default:
//   - macOS: ~/Library/Application Support/tilechess
//   - Windows: %APPDATA%\tilechess
//   - others: $XDG_DATA_HOME/tilechess or ~/.local/share/tilechess
func DataDir() (string, error) {
	dir := os.Getenv(DataDirEnv)
	if dir == "" {
		base, err := dataHome()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, appName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func dataHome() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if d := os.Getenv("APPDATA"); d != "" {
			return d, nil
		}
	case "darwin":
	default:
		if d := os.Getenv("XDG_DATA_HOME"); d != "" {
			return d, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		return filepath.Join(home, ".local", "share"), nil
	}
}
