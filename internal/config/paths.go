// ABOUTME: Standard filesystem paths for pi-offline configuration and data
// ABOUTME: Resolves ~/.pi-offline/ for global and .pi-offline/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".pi-offline"
	projectDirName = ".pi-offline"

	// HomeEnv overrides the global directory; tests and sandboxes set it.
	HomeEnv = "PI_OFFLINE_HOME"
)

// GlobalDir returns the user-global config directory (~/.pi-offline/).
func GlobalDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.pi-offline/ in root).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// SessionsDir returns the conversation storage directory.
func SessionsDir() string {
	return filepath.Join(GlobalDir(), "sessions")
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.json")
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "config.json")
}

// EnvFile returns the path of the project's .env file.
func EnvFile(projectRoot string) string {
	return filepath.Join(projectRoot, ".env")
}

// DefaultRepliesDir returns the reply overrides directory used when
// replies_dir is not configured.
func DefaultRepliesDir() string {
	return filepath.Join(GlobalDir(), "replies")
}

// GlobalKeybindingsFile returns the path to the user's key bindings file.
func GlobalKeybindingsFile() string {
	return filepath.Join(GlobalDir(), "keybindings.json")
}

// ProjectKeybindingsFile returns the path to the project key bindings file.
func ProjectKeybindingsFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "keybindings.json")
}

// EnsureDir creates a directory and all parents if they don't exist.
// Uses 0o700 because sessions hold conversation text.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
