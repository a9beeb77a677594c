package release

import (
	"regexp"
	"strings"
)

var (
	// subjectPattern matches "type(scope)!: description".
	subjectPattern = regexp.MustCompile(`^(\w+)(?:\(([^()]*)\))?(!)?: (.+)$`)
	// prRefPattern matches a trailing GitHub squash-merge reference like " (#123)".
	prRefPattern = regexp.MustCompile(`\s*\(#(\d+)\)$`)
	// breakingFooterPattern matches a BREAKING CHANGE footer token at line start.
	breakingFooterPattern = regexp.MustCompile(`(?m)^BREAKING[ -]CHANGE\b`)
)

// typeCategories maps conventional commit types to categories.
// Types not listed here map to CategoryOther.
var typeCategories = map[string]Category{
	"feat":     CategoryFeat,
	"fix":      CategoryFix,
	"docs":     CategoryDocs,
	"chore":    CategoryChore,
	"build":    CategoryChore,
	"ci":       CategoryChore,
	"refactor": CategoryChore,
	"test":     CategoryChore,
}

// ParseCommit classifies a raw commit by its subject line. It is total: every
// subject yields a ParsedCommit, subjects outside the convention become
// non-conventional CategoryOther entries.
func ParseCommit(raw RawCommit) ParsedCommit {
	subject := strings.TrimSpace(raw.Subject)
	parsed := ParsedCommit{
		Category:    CategoryOther,
		Description: subject,
		Source:      raw,
	}

	if m := subjectPattern.FindStringSubmatch(subject); m != nil {
		parsed.Conventional = true
		parsed.Category = categoryForType(m[1])
		parsed.Scope = strings.TrimSpace(m[2])
		parsed.Breaking = m[3] == "!"
		parsed.Description = strings.TrimSpace(m[4])
	}

	if m := prRefPattern.FindStringSubmatchIndex(parsed.Description); m != nil && m[0] > 0 {
		parsed.PRRef = parsed.Description[m[2]:m[3]]
		parsed.Description = strings.TrimSpace(parsed.Description[:m[0]])
	}

	if breakingFooterPattern.MatchString(raw.Body) {
		parsed.Breaking = true
	}

	return parsed
}

// categoryForType looks up a commit type, ignoring case.
func categoryForType(commitType string) Category {
	if c, ok := typeCategories[strings.ToLower(commitType)]; ok {
		return c
	}
	return CategoryOther
}

// Filter selects which parsed commits belong in a release summary.
type Filter struct {
	// Submodule keeps only commits whose parsed scope equals it. Empty keeps all.
	Submodule string
	// SkipPrefixes drops commits whose subject starts with any of the prefixes,
	// e.g. "Release" for the release commits themselves.
	SkipPrefixes []string
}

// Include reports whether a parsed commit passes the filter.
func (f Filter) Include(p ParsedCommit) bool {
	for _, prefix := range f.SkipPrefixes {
		if prefix != "" && strings.HasPrefix(p.Source.Subject, prefix) {
			return false
		}
	}
	if f.Submodule != "" && p.Scope != f.Submodule {
		return false
	}
	return true
}

// ParseCommits parses every commit, applies the filter and drops repeated
// hashes so each source commit appears once. Input order is preserved.
func ParseCommits(raws []RawCommit, filter Filter) []ParsedCommit {
	seen := make(map[string]bool, len(raws))
	parsed := make([]ParsedCommit, 0, len(raws))

	for _, raw := range raws {
		if seen[raw.Hash] {
			logDebug("[release] ParseCommits: skipping duplicate commit %s", raw.Hash)
			continue
		}
		seen[raw.Hash] = true

		p := ParseCommit(raw)
		if !filter.Include(p) {
			continue
		}
		parsed = append(parsed, p)
	}

	return parsed
}

// GroupByCategory groups conventional commits by category, keeping commit
// order within each group. Non-conventional commits are left out.
func GroupByCategory(commits []ParsedCommit) map[Category][]ParsedCommit {
	groups := make(map[Category][]ParsedCommit)
	for _, c := range commits {
		if !c.Conventional {
			continue
		}
		groups[c.Category] = append(groups[c.Category], c)
	}
	return groups
}
