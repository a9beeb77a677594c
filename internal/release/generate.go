package release

import (
	"context"
	"strings"
	"time"
)

// DateLayout is the ISO date format used in release headers.
const DateLayout = "2006-01-02"

// Options configures one Generate run.
type Options struct {
	// Subdir restricts changed files and tag scope to a subdirectory.
	Subdir string
	// Submodule restricts commits to those scoped to it and scopes tag lookup.
	Submodule string
	// SkipPrefixes drops commits whose subject starts with one of them.
	SkipPrefixes []string
	// RepoURL is the browsable repository URL. When empty, Remote is resolved.
	RepoURL string
	// Remote names the remote whose URL is used when RepoURL is empty.
	Remote string
	// Snapshot appends SnapshotSuffix to the new version.
	Snapshot bool
	// Now returns the release date. Defaults to time.Now.
	Now func() time.Time
	// NormalizeURL turns a remote URL into a browsable one. Defaults to identity.
	NormalizeURL func(string) string
}

// validate rejects option combinations that can never produce a summary.
func (o Options) validate() error {
	if o.Submodule != "" && strings.ContainsAny(o.Submodule, " \t\n()") {
		return &ConfigError{
			Field:   "submodule",
			Message: "must be a single commit scope token without spaces or parentheses",
		}
	}
	return nil
}

// Generate runs the whole pipeline once: locate the previous release, parse
// the commits since it, collect changed files and compute the next version.
// Repository calls happen sequentially and any failure aborts the run.
func Generate(ctx context.Context, repo Repository, opts Options) (*ReleaseSummary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	head, err := repo.Head(ctx)
	if err != nil {
		return nil, &AccessError{Op: "resolving HEAD", Err: err}
	}

	boundary, err := Locate(ctx, repo, TagScope(opts.Subdir, opts.Submodule))
	if err != nil {
		return nil, err
	}

	raws, err := repo.Commits(ctx, boundary.Hash, head)
	if err != nil {
		return nil, &AccessError{Op: "listing commits", Err: err}
	}
	logDebug("[release] Generate: %d commits since %q", len(raws), boundary.Tag)

	commits := ParseCommits(raws, Filter{
		Submodule:    opts.Submodule,
		SkipPrefixes: opts.SkipPrefixes,
	})

	files, err := CollectChangedFiles(ctx, repo, boundary, head, opts.Subdir)
	if err != nil {
		return nil, err
	}

	next, bump := NextVersion(boundary.PreviousVersion, commits)
	version := next.String()
	if opts.Snapshot {
		version += SnapshotSuffix
	}

	repoURL, err := resolveRepoURL(ctx, repo, opts)
	if err != nil {
		return nil, err
	}

	summary := &ReleaseSummary{
		Version:      version,
		Bump:         bump,
		Date:         nowFunc(opts)().Format(DateLayout),
		Commits:      commits,
		Groups:       GroupByCategory(commits),
		ChangedFiles: files,
		RepoURL:      repoURL,
		BoundaryTag:  boundary.Tag,
		CompareFrom:  compareFrom(boundary, raws),
		CompareTo:    head,
	}
	if boundary.PreviousVersion != nil {
		summary.PreviousVersion = boundary.PreviousVersion.String()
	}

	return summary, nil
}

// compareFrom is the left side of the compare link: the boundary commit, or
// the root commit when there was no previous release.
func compareFrom(boundary ReleaseBoundary, raws []RawCommit) string {
	if !boundary.IsRoot() {
		return boundary.Hash
	}
	if len(raws) > 0 {
		return raws[len(raws)-1].Hash
	}
	return "ROOT"
}

// resolveRepoURL prefers the configured URL and falls back to the remote.
// A missing remote is not an error; links are then omitted.
func resolveRepoURL(ctx context.Context, repo Repository, opts Options) (string, error) {
	if opts.RepoURL != "" {
		return strings.TrimSuffix(opts.RepoURL, "/"), nil
	}

	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}

	raw, err := repo.RemoteURL(ctx, remote)
	if err != nil {
		return "", &AccessError{Op: "reading remote " + remote, Err: err}
	}
	if raw == "" {
		logDebug("[release] Generate: remote %q not configured, links disabled", remote)
		return "", nil
	}

	if opts.NormalizeURL != nil {
		raw = opts.NormalizeURL(raw)
	}
	return strings.TrimSuffix(raw, "/"), nil
}

func nowFunc(opts Options) func() time.Time {
	if opts.Now != nil {
		return opts.Now
	}
	return time.Now
}
