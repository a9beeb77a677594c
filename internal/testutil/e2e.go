// Package testutil provides test utilities and helpers for gitrelease tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	// gitreleaseBinaryPath caches the built gitrelease binary path.
	gitreleaseBinaryPath string
	gitreleaseBuildOnce  sync.Once
	gitreleaseBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing.
// It owns a temp directory holding a git repository, a HOME without any
// user config and a freshly built gitrelease binary.
type E2EEnv struct {
	t         *testing.T
	tempDir   string
	binDir    string
	repoDir   string
	homeDir   string
	extraEnv  []string
	cleanedUp bool
	clock     time.Time
}

// CommandResult captures the result of running a gitrelease command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment with an empty git repository.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{
		t:     t,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	env.setup()
	t.Cleanup(env.Cleanup)

	return env
}

func (e *E2EEnv) setup() {
	e.t.Helper()

	tempDir, err := os.MkdirTemp("", "e2e-test-*")
	if err != nil {
		e.t.Fatalf("creating temp directory: %v", err)
	}
	e.tempDir = tempDir

	e.binDir = e.mkdir("bin")
	e.homeDir = e.mkdir("home")
	e.repoDir = e.mkdir("repo")

	e.buildGitrelease()
	e.git("init", "--quiet")
	e.git("config", "user.email", "test@test.com")
	e.git("config", "user.name", "Test")
	e.git("config", "commit.gpgsign", "false")
	e.git("config", "tag.gpgsign", "false")
}

func (e *E2EEnv) mkdir(name string) string {
	e.t.Helper()
	dir := filepath.Join(e.tempDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.t.Fatalf("creating %s directory: %v", name, err)
	}
	return dir
}

func (e *E2EEnv) buildGitrelease() {
	e.t.Helper()

	// Build gitrelease binary once per test session
	gitreleaseBuildOnce.Do(func() {
		gitreleaseBinaryPath, gitreleaseBuildErr = doBuildGitrelease()
	})

	if gitreleaseBuildErr != nil {
		e.t.Fatalf("building gitrelease: %v", gitreleaseBuildErr)
	}

	content, err := os.ReadFile(gitreleaseBinaryPath)
	if err != nil {
		e.t.Fatalf("reading gitrelease binary: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.binDir, "gitrelease"), content, 0o755); err != nil {
		e.t.Fatalf("writing gitrelease binary: %v", err)
	}
}

func doBuildGitrelease() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	// Navigate from internal/testutil/ to repo root
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "gitrelease-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}
	binaryPath := filepath.Join(tmpDir, "gitrelease")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/gitrelease")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building gitrelease: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// Run executes gitrelease inside the test repository.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()
	return e.RunIn(e.repoDir, args...)
}

// RunIn executes gitrelease with dir as working directory.
func (e *E2EEnv) RunIn(dir string, args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(filepath.Join(e.binDir, "gitrelease"), args...)
	cmd.Dir = dir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}

	return result
}

func (e *E2EEnv) buildIsolatedEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.homeDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.homeDir, ".config"),
		"NO_COLOR=1",
	}

	// Add safe environment variables from original environment
	for _, key := range []string{"LANG", "LC_ALL", "TMPDIR", "TMP", "TEMP"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	return append(env, e.extraEnv...)
}

// Setenv adds a variable to the environment of later runs.
func (e *E2EEnv) Setenv(key, value string) {
	e.extraEnv = append(e.extraEnv, key+"="+value)
}

// TempDir returns the root temp directory for this test environment.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// RepoDir returns the git repository working tree.
func (e *E2EEnv) RepoDir() string {
	return e.repoDir
}

// WriteFile writes a file relative to the repository root.
func (e *E2EEnv) WriteFile(path, content string) {
	e.t.Helper()

	full := filepath.Join(e.repoDir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", path, err)
	}
}

// Commit writes files (path -> content), stages everything and commits with
// msg. Each commit is one hour after the previous one.
func (e *E2EEnv) Commit(msg string, files map[string]string) {
	e.t.Helper()

	for path, content := range files {
		e.WriteFile(path, content)
	}
	e.git("add", "--all")

	e.clock = e.clock.Add(time.Hour)
	date := e.clock.Format(time.RFC3339)
	e.gitWithEnv([]string{"GIT_AUTHOR_DATE=" + date, "GIT_COMMITTER_DATE=" + date},
		"commit", "--quiet", "--allow-empty", "-m", msg)
}

// Tag creates a lightweight tag at HEAD.
func (e *E2EEnv) Tag(name string) {
	e.t.Helper()
	e.git("tag", name)
}

// AnnotatedTag creates an annotated tag at HEAD.
func (e *E2EEnv) AnnotatedTag(name string) {
	e.t.Helper()
	e.git("tag", "-a", name, "-m", "Release "+name)
}

// AddRemote configures a remote for the test repository.
func (e *E2EEnv) AddRemote(name, url string) {
	e.t.Helper()
	e.git("remote", "add", name, url)
}

func (e *E2EEnv) git(args ...string) {
	e.t.Helper()
	e.gitWithEnv(nil, args...)
}

func (e *E2EEnv) gitWithEnv(extra []string, args ...string) {
	e.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = e.repoDir
	cmd.Env = append(append(os.Environ(), "HOME="+e.homeDir), extra...)
	if output, err := cmd.CombinedOutput(); err != nil {
		e.t.Fatalf("git %v failed: %v\nOutput: %s", args, err, output)
	}
}

// Cleanup removes temp files.
func (e *E2EEnv) Cleanup() {
	if e.cleanedUp {
		return
	}
	e.cleanedUp = true

	if e.tempDir != "" {
		if err := os.RemoveAll(e.tempDir); err != nil {
			e.t.Logf("note: could not remove temp directory: %v", err)
		}
	}
}
