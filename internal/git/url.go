package git

import (
	"net/url"
	"regexp"
	"strings"
)

// scpURLPattern matches SCP-style remotes such as git@github.com:owner/repo.git.
var scpURLPattern = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):([\w./~-]+?)(?:\.git)?/?$`)

// NormalizeRemoteURL converts a remote URL into a browsable https URL:
//   - "git@github.com:owner/repo.git" → "https://github.com/owner/repo"
//   - "ssh://git@github.com:22/owner/repo.git" → "https://github.com/owner/repo"
//   - "https://token@github.com/owner/repo.git" → "https://github.com/owner/repo"
//
// Anything it does not recognise is returned with a trailing ".git" removed.
func NormalizeRemoteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return strings.TrimSuffix(raw, ".git")
		}
		repoPath := strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), ".git")
		switch u.Scheme {
		case "http", "https":
			return u.Scheme + "://" + u.Host + repoPath
		case "ssh", "git", "git+ssh":
			return "https://" + u.Hostname() + repoPath
		default:
			return strings.TrimSuffix(raw, ".git")
		}
	}

	if m := scpURLPattern.FindStringSubmatch(raw); m != nil {
		return "https://" + m[1] + "/" + strings.TrimPrefix(m[2], "/")
	}

	return strings.TrimSuffix(raw, ".git")
}
