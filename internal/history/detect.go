package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExitFileSuffix is appended to the history path to locate the sidecar file.
const ExitFileSuffix = "_exits"

// DetectPath returns the zsh history file to clean.
// $HISTFILE wins when set; otherwise the first existing common location is
// used, falling back to ~/.zsh_history.
func DetectPath() (string, error) {
	if histfile := os.Getenv("HISTFILE"); histfile != "" {
		return histfile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	locations := []string{
		filepath.Join(home, ".zsh_history"),
		filepath.Join(home, ".zhistory"),
		filepath.Join(home, ".histfile"),
	}

	for _, path := range locations {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	// Return default even if it doesn't exist
	return locations[0], nil
}

// DefaultExitPath returns the sidecar path for a history file
// (e.g. ~/.zsh_history -> ~/.zsh_history_exits).
func DefaultExitPath(historyPath string) string {
	return historyPath + ExitFileSuffix
}
