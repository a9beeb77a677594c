package config

import (
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the project config file name at the repository directory.
	ProjectConfigFile = ".gitrelease.yml"
	// LegacyProjectConfigFile is the deprecated JSON project config file name.
	LegacyProjectConfigFile = ".gitrelease.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/gitrelease/config.yml
// - macOS: ~/Library/Application Support/gitrelease/config.yml
// - Windows: %APPDATA%\gitrelease\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gitrelease"), nil
}

// ProjectConfigPath returns the path to the project-level config file in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFile)
}

// LegacyProjectConfigPath returns the path to the legacy JSON project config in dir.
func LegacyProjectConfigPath(dir string) string {
	return filepath.Join(dir, LegacyProjectConfigFile)
}
