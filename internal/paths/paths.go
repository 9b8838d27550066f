package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "biosubmit"

type Paths struct {
	ConfigDir string
	DataDir   string
	StateDir  string
}

// GetPaths returns all base paths respecting environment variables
func GetPaths() Paths {
	return Paths{
		ConfigDir: getDir("BIOSUBMIT_CONFIG_HOME", "XDG_CONFIG_HOME", ".config"),
		DataDir:   getDir("BIOSUBMIT_DATA_HOME", "XDG_DATA_HOME", ".local/share"),
		StateDir:  getDir("BIOSUBMIT_STATE_HOME", "XDG_STATE_HOME", ".local/state"),
	}
}

func getDir(appEnv, xdgEnv, defaultBase string) string {
	// 1. Check biosubmit-specific env
	if dir := os.Getenv(appEnv); dir != "" {
		return dir
	}

	// 2. Check XDG env
	if xdgBase := os.Getenv(xdgEnv); xdgBase != "" {
		return filepath.Join(xdgBase, appName)
	}

	// 3. Use default
	home, _ := os.UserHomeDir()
	return filepath.Join(home, defaultBase, appName)
}

// GetLogPath returns the path to the debug log
func GetLogPath() string {
	if path := os.Getenv("BIOSUBMIT_LOG_PATH"); path != "" {
		return path
	}
	return filepath.Join(GetPaths().StateDir, "logs", "debug.log")
}

// GetHistoryPath returns the path to the submission history database
func GetHistoryPath() string {
	if path := os.Getenv("BIOSUBMIT_HISTORY_PATH"); path != "" {
		return path
	}
	return filepath.Join(GetPaths().DataDir, "history.db")
}

// GetIndexPath returns the path to the sample search index
func GetIndexPath() string {
	if path := os.Getenv("BIOSUBMIT_INDEX_PATH"); path != "" {
		return path
	}
	return filepath.Join(GetPaths().DataDir, "samples.bleve")
}

// EnsureDirectories creates all necessary directories
func EnsureDirectories() error {
	paths := GetPaths()
	dirs := []string{
		paths.ConfigDir,
		paths.DataDir,
		paths.StateDir,
		filepath.Join(paths.StateDir, "logs"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
