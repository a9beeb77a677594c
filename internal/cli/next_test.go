package cli

import (
	"testing"

	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monorepo has an unscoped release, a scoped release for services/api and
// a docs scoped release.
func monorepo(t *testing.T) *diskRepo {
	t.Helper()
	r := newDiskRepo(t)
	r.tag("v1.0.0", r.commit("feat: initial import", map[string]string{"main.go": "package main\n"}))
	r.tag("services/api-v0.3.0", r.commit("feat(api): add users endpoint", map[string]string{"services/api/users.go": "package api\n"}))
	r.tag("docs-v2.0.0", r.commit("docs(docs): describe endpoints", map[string]string{"docs/api.md": "# API\n"}))
	r.commit("feat(api): add groups endpoint", map[string]string{"services/api/groups.go": "package api\n"})
	r.commit("fix(docs): broken link", map[string]string{"docs/api.md": "# API\n\nfixed\n"})
	r.commit("feat!: drop legacy flags", map[string]string{"main.go": "package main\n\n"})
	return r
}

func TestNextCmd(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"unscoped breaking change": {
			args: []string{},
			want: "2.0.0\n",
		},
		"unscoped tag name": {
			args: []string{"--tag"},
			want: "v2.0.0\n",
		},
		"subdir": {
			args: []string{"--subdir", "services/api"},
			want: "1.0.0\n",
		},
		"subdir tag name": {
			args: []string{"--subdir", "services/api/", "--tag"},
			want: "services/api-v1.0.0\n",
		},
		"submodule only sees its scope": {
			args: []string{"--submodule", "docs"},
			want: "2.0.1\n",
		},
		"submodule tag name with snapshot": {
			args: []string{"--submodule", "docs", "--tag", "--snapshot"},
			want: "docs-v2.0.1-SNAPSHOT\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := monorepo(t)
			args := append([]string{"next", "--dir", r.dir}, tt.args...)

			stdout, stderr, code := executeCommand(t, "", args...)
			require.Equal(t, ExitSuccess, code, stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestNextCmd_FirstRelease(t *testing.T) {
	r := newDiskRepo(t)
	r.commit("chore: scaffold", map[string]string{"go.mod": "module example.com/x\n"})
	r.commit("feat: first feature", map[string]string{"x.go": "package x\n"})

	stdout, stderr, code := executeCommand(t, "", "next", "--dir", r.dir)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "0.1.0\n", stdout)
}

func TestNextCmd_RejectsArguments(t *testing.T) {
	r := releasedRepo(t)

	_, stderr, code := executeCommand(t, "", "next", "--dir", r.dir, "1.0.0")
	assert.Equal(t, ExitInvalidArguments, code)
	assert.Contains(t, stderr, "gitrelease next [flags]")
}

func TestSummary_RemoteURL(t *testing.T) {
	tests := map[string]struct {
		remote string
		args   []string
		want   string
	}{
		"scp remote": {
			remote: "git@github.com:acme/widgets.git",
			want:   "https://github.com/acme/widgets/commit/",
		},
		"named remote": {
			remote: "https://gitlab.com/acme/widgets.git",
			args:   []string{"--remote", "upstream"},
			want:   "https://gitlab.com/acme/widgets/commit/",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := releasedRepo(t)
			remoteName := "origin"
			if len(tt.args) > 0 {
				remoteName = tt.args[1]
			}
			_, err := r.repo.CreateRemote(&gitconfig.RemoteConfig{Name: remoteName, URLs: []string{tt.remote}})
			require.NoError(t, err)

			args := append([]string{"--dir", r.dir}, tt.args...)
			stdout, stderr, code := executeCommand(t, "", args...)
			require.Equal(t, ExitSuccess, code, stderr)
			assert.Contains(t, stdout, tt.want)
		})
	}
}
