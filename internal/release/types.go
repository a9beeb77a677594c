package release

import "time"

// Category is the release-note bucket a commit falls into.
type Category string

const (
	CategoryFeat  Category = "feat"
	CategoryFix   Category = "fix"
	CategoryDocs  Category = "docs"
	CategoryChore Category = "chore"
	CategoryOther Category = "other"
)

// Categories returns all categories in their rendering priority order.
func Categories() []Category {
	return []Category{CategoryFeat, CategoryFix, CategoryDocs, CategoryChore, CategoryOther}
}

// Label returns the human section title for the category.
func (c Category) Label() string {
	switch c {
	case CategoryFeat:
		return "Features"
	case CategoryFix:
		return "Bug Fixes"
	case CategoryDocs:
		return "Documentation"
	case CategoryChore:
		return "Miscellaneous Chores"
	default:
		return "Other Changes"
	}
}

// RawCommit is a commit as read from the repository. It is never modified
// after it has been read.
type RawCommit struct {
	Hash    string    `json:"hash" yaml:"hash"`
	Subject string    `json:"subject" yaml:"subject"`
	Body    string    `json:"body,omitempty" yaml:"body,omitempty"`
	Author  string    `json:"author,omitempty" yaml:"author,omitempty"`
	When    time.Time `json:"when" yaml:"when"`
	Files   []string  `json:"files,omitempty" yaml:"files,omitempty"`
}

// ShortHash returns the first seven characters of the commit hash.
func (c RawCommit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// ParsedCommit is the structured view of a RawCommit subject line.
type ParsedCommit struct {
	Category Category `json:"category" yaml:"category"`
	// Scope is the token between parentheses, e.g. "api" in "fix(api): ...".
	Scope       string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Description string `json:"description" yaml:"description"`
	Breaking    bool   `json:"breaking,omitempty" yaml:"breaking,omitempty"`
	// Conventional is false when the subject did not follow type(scope): description.
	// Such commits are listed but never grouped into a category section.
	Conventional bool `json:"conventional" yaml:"conventional"`
	// PRRef is the pull request number from a trailing "(#123)", without the '#'.
	PRRef  string    `json:"pr_ref,omitempty" yaml:"pr_ref,omitempty"`
	Source RawCommit `json:"source" yaml:"source"`
}

// Ref returns the reference shown next to the commit: "#<pr>" when the
// subject carried one, otherwise the short hash.
func (p ParsedCommit) Ref() string {
	if p.PRRef != "" {
		return "#" + p.PRRef
	}
	return p.Source.ShortHash()
}

// Tag is a release tag and the commit it points at.
type Tag struct {
	Name string
	Hash string
}

// ReleaseBoundary marks where the previous release ended.
// A nil PreviousVersion means no prior release was found; the range then
// covers the whole history reachable from HEAD.
type ReleaseBoundary struct {
	PreviousVersion *Version
	Tag             string
	Hash            string
}

// IsRoot reports whether the boundary is the start of history.
func (b ReleaseBoundary) IsRoot() bool {
	return b.Hash == ""
}

// Bump is the kind of semantic version increment.
type Bump string

const (
	BumpMajor Bump = "major"
	BumpMinor Bump = "minor"
	BumpPatch Bump = "patch"
)

// ReleaseSummary is the single output artifact of a run.
type ReleaseSummary struct {
	Version         string                      `json:"version" yaml:"version"`
	PreviousVersion string                      `json:"previous_version,omitempty" yaml:"previous_version,omitempty"`
	Bump            Bump                        `json:"bump" yaml:"bump"`
	Date            string                      `json:"date" yaml:"date"`
	Commits         []ParsedCommit              `json:"commits" yaml:"commits"`
	Groups          map[Category][]ParsedCommit `json:"groups" yaml:"groups"`
	ChangedFiles    []string                    `json:"changed_files" yaml:"changed_files"`
	RepoURL         string                      `json:"repo_url,omitempty" yaml:"repo_url,omitempty"`
	BoundaryTag     string                      `json:"boundary_tag,omitempty" yaml:"boundary_tag,omitempty"`
	CompareFrom     string                      `json:"compare_from" yaml:"compare_from"`
	CompareTo       string                      `json:"compare_to" yaml:"compare_to"`
}

// CompareLink returns the URL comparing the release range, or "" when the
// repository URL is unknown.
func (s *ReleaseSummary) CompareLink() string {
	if s.RepoURL == "" {
		return ""
	}
	return s.RepoURL + "/compare/" + s.CompareFrom + "..." + s.CompareTo
}

// CommitURL returns the URL of a commit, or "" when the repository URL is unknown.
func (s *ReleaseSummary) CommitURL(hash string) string {
	if s.RepoURL == "" {
		return ""
	}
	return s.RepoURL + "/commit/" + hash
}
