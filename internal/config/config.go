// gitrelease - Conventional Commit Release Summaries
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/gitrelease

// Package config provides hierarchical configuration management for gitrelease using koanf.
// Configuration is loaded with priority: command line overrides > environment variables
// (GITRELEASE_*) > project config (<dir>/.gitrelease.yml) > user config
// (~/.config/gitrelease/config.yml) > defaults. The legacy <dir>/.gitrelease.json project
// file is still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable gitrelease reads.
const EnvPrefix = "GITRELEASE_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUser     ConfigSource = "user"
	SourceProject  ConfigSource = "project"
	SourceEnv      ConfigSource = "env"
	SourceOverride ConfigSource = "flag"
)

// Configuration represents the gitrelease CLI configuration
type Configuration struct {
	// Dir is any path inside the repository working tree.
	Dir string `koanf:"dir" yaml:"dir" validate:"required"`
	// Subdir restricts the changed files and the tag scope to a subdirectory.
	Subdir string `koanf:"subdir" yaml:"subdir"`
	// Submodule keeps only commits scoped to it, e.g. "api" for "feat(api): ...".
	Submodule string `koanf:"submodule" yaml:"submodule"`
	// RepoURL is the browsable repository URL used for links.
	// Empty means derive it from Remote.
	RepoURL string `koanf:"repo_url" yaml:"repo_url" validate:"omitempty,url"`
	Remote  string `koanf:"remote" yaml:"remote" validate:"required"`
	// Format selects the output: markdown, text, yaml or json.
	Format string `koanf:"format" yaml:"format" validate:"oneof=markdown text yaml json"`
	// SkipPrefixes drops commits whose subject starts with any of them.
	// Can be set via GITRELEASE_SKIP_PREFIXES as a comma separated list.
	SkipPrefixes []string `koanf:"skip_prefixes" yaml:"skip_prefixes"`
	// Banner and Footer replace the default first and closing lines when set.
	Banner     string `koanf:"banner" yaml:"banner"`
	Footer     string `koanf:"footer" yaml:"footer"`
	OmitFooter bool   `koanf:"omit_footer" yaml:"omit_footer"`
	Snapshot   bool   `koanf:"snapshot" yaml:"snapshot"`
	// Preview renders markdown through glamour when stdout is a terminal.
	Preview bool `koanf:"preview" yaml:"preview"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Dir is the repository directory used to find the project config.
	// Empty means GITRELEASE_DIR, then the current directory.
	Dir string
	// ProjectConfigPath overrides the project config path (default: <dir>/.gitrelease.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (mainly for tests)
	UserConfigPath string
	// SkipUserConfig ignores the user-level config entirely
	SkipUserConfig bool
	// Overrides are applied last, keyed by config key (e.g. "subdir").
	Overrides map[string]any
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration for the repository at dir.
func Load(dir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{Dir: dir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts, warningWriter); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying override %s: %w", key, err)
		}
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if present.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads <dir>/.gitrelease.yml, falling back to the legacy
// JSON file with a warning. An explicit path must exist.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) error {
	if opts.ProjectConfigPath != "" {
		if !fileExists(opts.ProjectConfigPath) {
			return &ValidationError{FilePath: opts.ProjectConfigPath, Message: "config file not found"}
		}
		return loadConfigFile(k, opts.ProjectConfigPath, "project")
	}

	dir := resolveDir(opts.Dir)
	yamlPath := ProjectConfigPath(dir)
	legacyPath := LegacyProjectConfigPath(dir)

	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if legacyExists && !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
			fmt.Fprintf(warningWriter, "  Run 'gitrelease config migrate' to remove the legacy file.\n\n")
		}
	case legacyExists:
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyPath, err)
		}
		if !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Run 'gitrelease config migrate' to migrate to YAML format.\n\n")
		}
	}
	return nil
}

// loadConfigFile picks the parser from the file extension.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return nil
	}
	return loadYAMLConfig(k, path, configType)
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides.
// List values are comma separated.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	provider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = envTransform(key)
		if key == "skip_prefixes" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.RepoURL = strings.TrimSuffix(strings.TrimSpace(cfg.RepoURL), "/")
	cfg.Dir = expandHomePath(cfg.Dir)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// resolveDir returns the directory used to find the project config.
func resolveDir(dir string) string {
	if dir != "" {
		return expandHomePath(dir)
	}
	if envDir := os.Getenv(EnvPrefix + "DIR"); envDir != "" {
		return expandHomePath(envDir)
	}
	return "."
}

// splitList splits a comma separated value, dropping empty items.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: GITRELEASE_REPO_URL -> repo_url
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
