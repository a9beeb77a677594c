package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func isolatedOptions(dir string) LoadOptions {
	return LoadOptions{Dir: dir, SkipUserConfig: true, WarningWriter: &bytes.Buffer{}}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadWithOptions(isolatedOptions(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, "markdown", cfg.Format)
	assert.Equal(t, []string{"Release"}, cfg.SkipPrefixes)
	assert.Empty(t, cfg.Subdir)
	assert.Empty(t, cfg.RepoURL)
	assert.False(t, cfg.Snapshot)
	assert.False(t, cfg.Preview)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ProjectConfigFile, `
subdir: services/api
submodule: api
repo_url: https://github.com/acme/mono/
format: JSON
skip_prefixes: [Release, Bump]
snapshot: true
`)

	cfg, err := LoadWithOptions(isolatedOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, "services/api", cfg.Subdir)
	assert.Equal(t, "api", cfg.Submodule)
	assert.Equal(t, "https://github.com/acme/mono", cfg.RepoURL)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, []string{"Release", "Bump"}, cfg.SkipPrefixes)
	assert.True(t, cfg.Snapshot)
	assert.Equal(t, "origin", cfg.Remote, "unset keys keep defaults")
}

func TestLoad_LegacyJSONWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, LegacyProjectConfigFile, `{"remote": "upstream"}`)

	var warnings bytes.Buffer
	opts := isolatedOptions(dir)
	opts.WarningWriter = &warnings

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.Contains(t, warnings.String(), "deprecated JSON config")
}

func TestLoad_YAMLPreferredOverLegacy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ProjectConfigFile, "remote: yaml-remote\n")
	writeFile(t, dir, LegacyProjectConfigFile, `{"remote": "json-remote"}`)

	var warnings bytes.Buffer
	opts := isolatedOptions(dir)
	opts.WarningWriter = &warnings

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "yaml-remote", cfg.Remote)
	assert.Contains(t, warnings.String(), "ignored")

	warnings.Reset()
	opts.SkipWarnings = true
	_, err = LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Empty(t, warnings.String())
}

func TestLoad_UserConfigBelowProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	userPath := writeFile(t, t.TempDir(), "gitrelease/config.yml", "remote: user-remote\nformat: yaml\n")
	writeFile(t, dir, ProjectConfigFile, "remote: project-remote\n")

	cfg, err := LoadWithOptions(LoadOptions{Dir: dir, UserConfigPath: userPath})
	require.NoError(t, err)
	assert.Equal(t, "project-remote", cfg.Remote)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestLoad_EnvironmentOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectConfigFile, "remote: project-remote\nsubdir: a\n")

	t.Setenv("GITRELEASE_REMOTE", "env-remote")
	t.Setenv("GITRELEASE_SKIP_PREFIXES", "Release, chore(release), ")
	t.Setenv("GITRELEASE_SNAPSHOT", "true")

	cfg, err := LoadWithOptions(isolatedOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, "env-remote", cfg.Remote)
	assert.Equal(t, "a", cfg.Subdir)
	assert.Equal(t, []string{"Release", "chore(release)"}, cfg.SkipPrefixes)
	assert.True(t, cfg.Snapshot)
}

func TestLoad_OverridesWin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectConfigFile, "subdir: from-file\n")
	t.Setenv("GITRELEASE_SUBDIR", "from-env")

	opts := isolatedOptions(dir)
	opts.Overrides = map[string]any{"subdir": "from-flag", "preview": true}

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Subdir)
	assert.True(t, cfg.Preview)
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	t.Parallel()

	other := writeFile(t, t.TempDir(), "custom.yml", "format: text\n")
	jsonPath := writeFile(t, t.TempDir(), "custom.json", `{"format": "yaml"}`)

	opts := isolatedOptions(t.TempDir())
	opts.ProjectConfigPath = other
	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)

	opts.ProjectConfigPath = jsonPath
	cfg, err = LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)

	opts.ProjectConfigPath = filepath.Join(t.TempDir(), "missing.yml")
	_, err = LoadWithOptions(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
	}{
		"unknown format": {content: "format: html\n", wantField: "format"},
		"bad repo url":   {content: "repo_url: not a url\n", wantField: "repo_url"},
		"empty remote":   {content: "remote: \"\"\n", wantField: "remote"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, dir, ProjectConfigFile, tt.content)

			_, err := LoadWithOptions(isolatedOptions(dir))
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestLoad_InvalidYAMLSyntax(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ProjectConfigFile, "format: [markdown\n")

	_, err := LoadWithOptions(isolatedOptions(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating YAML syntax")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Greater(t, vErr.Line, 0)
}

func TestDefaultTemplateMatchesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ProjectConfigFile, GetDefaultConfigTemplate())

	fromTemplate, err := LoadWithOptions(isolatedOptions(dir))
	require.NoError(t, err)

	fromDefaults, err := LoadWithOptions(isolatedOptions(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, fromDefaults, fromTemplate)
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "repo_url", envTransform("GITRELEASE_REPO_URL"))
	assert.Equal(t, "format", envTransform("GITRELEASE_FORMAT"))
}
