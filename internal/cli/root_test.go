// Package cli tests the root command, global flags and summary output.
// Related: internal/cli/root.go
// Tags: cli, root, summary, global-flags

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/gitrelease/internal/changelog"
	gitpkg "github.com/ariel-frischer/gitrelease/internal/git"
	"github.com/ariel-frischer/gitrelease/internal/release"
)

// Tests in this package drive the shared rootCmd and its package level flag
// variables, so none of them run in parallel.

const testRepoURL = "https://github.com/acme/widgets"

// diskRepo builds a small repository on disk with deterministic commit times.
type diskRepo struct {
	t     *testing.T
	dir   string
	repo  *git.Repository
	wt    *git.Worktree
	clock time.Time
}

func newDiskRepo(t *testing.T) *diskRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &diskRepo{
		t:     t,
		dir:   dir,
		repo:  repo,
		wt:    wt,
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// commit writes the given files (path -> content) and commits them.
func (r *diskRepo) commit(msg string, files map[string]string) plumbing.Hash {
	r.t.Helper()
	for path, content := range files {
		full := filepath.Join(r.dir, path)
		require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
		_, err := r.wt.Add(path)
		require.NoError(r.t, err)
	}

	r.clock = r.clock.Add(time.Hour)
	h, err := r.wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: r.clock},
	})
	require.NoError(r.t, err)
	return h
}

func (r *diskRepo) tag(name string, h plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, h, nil)
	require.NoError(r.t, err)
}

// releasedRepo has a v0.1.0 release followed by one scoped fix.
func releasedRepo(t *testing.T) *diskRepo {
	t.Helper()
	r := newDiskRepo(t)
	first := r.commit("feat: initial import", map[string]string{"README.md": "# widgets\n", "parser/parser.go": "package parser\n"})
	r.tag("v0.1.0", first)
	r.commit("fix(parser): handle empty input", map[string]string{"parser/parser.go": "package parser\n\n// empty\n"})
	return r
}

// resetCommand restores every flag to its default and hands ctx to every
// command, since cobra keeps the context of the first run on subcommands.
func resetCommand(cmd *cobra.Command, ctx context.Context) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	cmd.SetContext(ctx)
	for _, c := range cmd.Commands() {
		resetCommand(c, ctx)
	}
}

// executeCommand runs rootCmd with args and returns stdout, stderr and the exit code.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	return executeCommandContext(t, context.Background(), stdin, args...)
}

func executeCommandContext(t *testing.T, ctx context.Context, stdin string, args ...string) (string, string, int) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	resetCommand(rootCmd, ctx)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		release.SetDebugLogger(nil)
		gitpkg.SetDebugLogger(nil)
	})

	code := run(ctx, rootCmd)
	return stdout.String(), stderr.String(), code
}

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "gitrelease", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCmd_Flags(t *testing.T) {
	tests := map[string]struct {
		flagName   string
		persistent bool
	}{
		"config":      {flagName: "config", persistent: true},
		"debug":       {flagName: "debug", persistent: true},
		"dir":         {flagName: "dir", persistent: true},
		"subdir":      {flagName: "subdir", persistent: true},
		"submodule":   {flagName: "submodule", persistent: true},
		"repo-url":    {flagName: "repo-url", persistent: true},
		"remote":      {flagName: "remote", persistent: true},
		"snapshot":    {flagName: "snapshot", persistent: true},
		"format":      {flagName: "format"},
		"preview":     {flagName: "preview"},
		"omit-footer": {flagName: "omit-footer"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.persistent {
				assert.NotNil(t, rootCmd.PersistentFlags().Lookup(tt.flagName))
				return
			}
			assert.NotNil(t, rootCmd.Flags().Lookup(tt.flagName))
			assert.Nil(t, rootCmd.PersistentFlags().Lookup(tt.flagName))
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"next", "config", "files", "watch", "version", "sauce"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestSummary_Markdown(t *testing.T) {
	r := releasedRepo(t)

	stdout, stderr, code := executeCommand(t, "", "--dir", r.dir, "--repo-url", testRepoURL)
	require.Equal(t, ExitSuccess, code, stderr)

	assert.True(t, strings.HasPrefix(stdout, changelog.DefaultBanner+"\n---\n"))
	assert.Contains(t, stdout, "### 0.1.1 / ")
	assert.Contains(t, stdout, "#### Bug Fixes")
	assert.Contains(t, stdout, "* **parser:** handle empty input")
	assert.Contains(t, stdout, testRepoURL+"/commit/")
	assert.Contains(t, stdout, "```text\nparser/parser.go\n```")
	assert.Contains(t, stdout, "[Compare Changes]("+testRepoURL+"/compare/")
	assert.Contains(t, stdout, "generated with [gitrelease]")
	assert.NotContains(t, stdout, "initial import")
	assert.Empty(t, stderr, "progress is only shown on a terminal")
}

func TestSummary_Options(t *testing.T) {
	tests := map[string]struct {
		args        []string
		contains    []string
		notContains []string
	}{
		"omit footer": {
			args:        []string{"--omit-footer"},
			contains:    []string{"### 0.1.1 / "},
			notContains: []string{"generated with [gitrelease]"},
		},
		"snapshot": {
			args:     []string{"--snapshot"},
			contains: []string{"### 0.1.1-SNAPSHOT / "},
		},
		"no repository url": {
			args:        []string{},
			contains:    []string{"* handle empty input (", "Compare: `"},
			notContains: []string{"/commit/", "[Compare Changes]"},
		},
		"text format": {
			args:     []string{"--format", "text", "--repo-url", testRepoURL},
			contains: []string{"## v0.1.1 (", "patch bump, since v0.1.0", "### Bug Fixes", "1 commits, 1 files changed"},
		},
		"format is case insensitive": {
			args:     []string{"--format", "TEXT"},
			contains: []string{"## v0.1.1 ("},
		},
		"yaml format": {
			args:     []string{"--format", "yaml"},
			contains: []string{"version: 0.1.1\n", "bump: patch\n", "boundary_tag: v0.1.0\n"},
		},
		"preview without terminal prints markdown": {
			args:     []string{"--preview"},
			contains: []string{"### 0.1.1 / "},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := releasedRepo(t)
			args := append([]string{"--dir", r.dir}, tt.args...)

			stdout, stderr, code := executeCommand(t, "", args...)
			require.Equal(t, ExitSuccess, code, stderr)

			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, stdout, unwanted)
			}
		})
	}
}

func TestSummary_JSON(t *testing.T) {
	r := releasedRepo(t)

	stdout, stderr, code := executeCommand(t, "", "--dir", r.dir, "--format", "json", "--repo-url", testRepoURL+"/")
	require.Equal(t, ExitSuccess, code, stderr)

	var got release.ReleaseSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "0.1.1", got.Version)
	assert.Equal(t, "0.1.0", got.PreviousVersion)
	assert.Equal(t, release.BumpPatch, got.Bump)
	assert.Equal(t, testRepoURL, got.RepoURL)
	assert.Equal(t, []string{"parser/parser.go"}, got.ChangedFiles)
	require.Len(t, got.Commits, 1)
	assert.Equal(t, "parser", got.Commits[0].Scope)
}

func TestSummary_ProjectConfig(t *testing.T) {
	r := releasedRepo(t)
	cfg := "banner: \"Release time\"\nfooter: \"Thanks!\"\nrepo_url: " + testRepoURL + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(r.dir, ".gitrelease.yml"), []byte(cfg), 0o644))

	stdout, stderr, code := executeCommand(t, "", "--dir", r.dir)
	require.Equal(t, ExitSuccess, code, stderr)

	assert.True(t, strings.HasPrefix(stdout, "Release time\n---\n"))
	assert.True(t, strings.HasSuffix(stdout, "\nThanks!\n"))
	assert.Contains(t, stdout, testRepoURL+"/commit/")
}

func TestSummary_ConfigFlag(t *testing.T) {
	r := releasedRepo(t)
	path := filepath.Join(t.TempDir(), "release.yml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\n"), 0o644))

	stdout, stderr, code := executeCommand(t, "", "--dir", r.dir, "-c", path)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "version: 0.1.1\n")

	// A flag still wins over the file.
	stdout, stderr, code = executeCommand(t, "", "--dir", r.dir, "-c", path, "--format", "markdown")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "### 0.1.1 / ")
}

func TestSummary_Debug(t *testing.T) {
	r := releasedRepo(t)

	_, stderr, code := executeCommand(t, "", "--dir", r.dir, "--debug")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stderr, "[gitrelease] ")
	assert.Contains(t, stderr, "previous release 0.1.0")
}

func TestSummary_Errors(t *testing.T) {
	tests := map[string]struct {
		setup      func(t *testing.T) string
		args       []string
		wantCode   int
		wantStderr string
	}{
		"not a repository": {
			setup:      func(t *testing.T) string { return t.TempDir() },
			wantCode:   ExitRepositoryError,
			wantStderr: "is not inside a git repository",
		},
		"empty repository": {
			setup:      func(t *testing.T) string { return newDiskRepo(t).dir },
			wantCode:   ExitRepositoryError,
			wantStderr: "repository has no commits yet",
		},
		"malformed release tag": {
			setup: func(t *testing.T) string {
				r := newDiskRepo(t)
				r.tag("v1.2", r.commit("feat: one", map[string]string{"a.go": "package a\n"}))
				r.commit("fix: two", map[string]string{"a.go": "package a\n\n"})
				return r.dir
			},
			wantCode:   ExitLocatorError,
			wantStderr: `release tag "v1.2" does not carry a valid semantic version`,
		},
		"unknown format": {
			setup:      func(t *testing.T) string { return releasedRepo(t).dir },
			args:       []string{"--format", "html"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "unknown output format: html",
		},
		"unexpected argument": {
			setup:      func(t *testing.T) string { return releasedRepo(t).dir },
			args:       []string{"extra"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "unexpected arguments: [extra]",
		},
		"unknown flag": {
			setup:      func(t *testing.T) string { return releasedRepo(t).dir },
			args:       []string{"--nope"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "unknown flag: --nope",
		},
		"submodule with spaces": {
			setup:      func(t *testing.T) string { return releasedRepo(t).dir },
			args:       []string{"--submodule", "my api"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "invalid submodule",
		},
		"invalid repo url in config": {
			setup: func(t *testing.T) string {
				r := releasedRepo(t)
				require.NoError(t, os.WriteFile(filepath.Join(r.dir, ".gitrelease.yml"), []byte("repo_url: not a url\n"), 0o644))
				return r.dir
			},
			wantCode:   ExitInvalidArguments,
			wantStderr: "repo_url",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := tt.setup(t)
			args := append([]string{"--dir", dir}, tt.args...)

			stdout, stderr, code := executeCommand(t, "", args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantStderr)
			assert.Empty(t, stdout)
		})
	}
}
