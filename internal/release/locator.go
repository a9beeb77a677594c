package release

import (
	"context"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// TagScope derives the tag prefix scope: the submodule name when set,
// otherwise the cleaned slash-separated subdirectory, otherwise none.
func TagScope(subdir, submodule string) string {
	if submodule != "" {
		return submodule
	}
	return CleanSubdir(subdir)
}

// CleanSubdir normalises a subdirectory to a slash-separated path relative to
// the repository root with no leading or trailing slash. "", "." and "/"
// all clean to "".
func CleanSubdir(subdir string) string {
	return strings.Trim(path.Clean("/"+filepath.ToSlash(subdir)), "/")
}

// TagName formats the release tag for a version in the given scope:
// "v1.2.3" unscoped, "<scope>-v1.2.3" scoped.
func TagName(scope, version string) string {
	if scope == "" {
		return "v" + version
	}
	return scope + "-v" + version
}

// TagMatcher recognises release tags for one scope.
//
// Unscoped tags look like "v1.2.3" or "1.2.3". Scoped tags look like
// "<scope>-v1.2.3", "<scope>/v1.2.3" or "<scope>/1.2.3".
type TagMatcher struct {
	scope   string
	pattern *regexp.Regexp
}

// NewTagMatcher builds a matcher for the given scope ("" for unscoped).
func NewTagMatcher(scope string) *TagMatcher {
	prefix := ""
	if scope != "" {
		prefix = "(?:" + regexp.QuoteMeta(scope) + "-v|" + regexp.QuoteMeta(scope) + "/v?)"
	} else {
		prefix = "v?"
	}
	// Candidates only need to start like a version; strict parsing happens
	// once the nearest candidate is known so a malformed release tag fails
	// loudly instead of being skipped.
	return &TagMatcher{
		scope:   scope,
		pattern: regexp.MustCompile("^" + prefix + `(\d[0-9A-Za-z.+-]*)$`),
	}
}

// Match reports whether the tag name is a release tag candidate.
func (m *TagMatcher) Match(name string) bool {
	return m.pattern.MatchString(name)
}

// VersionString extracts the version portion of a matching tag name.
func (m *TagMatcher) VersionString(name string) string {
	sm := m.pattern.FindStringSubmatch(name)
	if sm == nil {
		return ""
	}
	return sm[1]
}

// Locate finds the most recent release tag reachable from HEAD for the scope.
// When no tag matches, the zero boundary (root, no previous version) is
// returned without error.
func Locate(ctx context.Context, repo Repository, scope string) (ReleaseBoundary, error) {
	matcher := NewTagMatcher(scope)

	tag, err := repo.LatestTag(ctx, "HEAD", matcher.Match)
	if err != nil {
		return ReleaseBoundary{}, &LocatorError{Err: err}
	}
	if tag == nil {
		logDebug("[release] Locate: no release tag for scope %q, using root", scope)
		return ReleaseBoundary{}, nil
	}

	v, err := ParseVersion(matcher.VersionString(tag.Name))
	if err != nil {
		return ReleaseBoundary{}, &LocatorError{Tag: tag.Name, Err: err}
	}

	logDebug("[release] Locate: previous release %s (%s) at %s", v, tag.Name, tag.Hash)
	return ReleaseBoundary{
		PreviousVersion: &v,
		Tag:             tag.Name,
		Hash:            tag.Hash,
	}, nil
}
