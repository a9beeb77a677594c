package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRemoteURL(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"scp style":          {input: "git@github.com:owner/repo.git", want: "https://github.com/owner/repo"},
		"scp without suffix": {input: "git@gitlab.com:group/sub/repo", want: "https://gitlab.com/group/sub/repo"},
		"ssh scheme":         {input: "ssh://git@github.com:22/owner/repo.git", want: "https://github.com/owner/repo"},
		"https":              {input: "https://github.com/owner/repo.git", want: "https://github.com/owner/repo"},
		"https with token":   {input: "https://x-token@github.com/owner/repo.git", want: "https://github.com/owner/repo"},
		"http keeps scheme":  {input: "http://git.local:8080/owner/repo", want: "http://git.local:8080/owner/repo"},
		"trailing slash":     {input: "https://github.com/owner/repo/", want: "https://github.com/owner/repo"},
		"local path":         {input: "/srv/git/repo.git", want: "/srv/git/repo"},
		"empty":              {input: "", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeRemoteURL(tt.input))
		})
	}
}
