package release

import "context"

// Repository is the git access the release pipeline needs.
// Implementations must be safe to call sequentially; the pipeline never
// calls them concurrently.
type Repository interface {
	// LatestTag returns the nearest tag reachable from ref whose name is
	// accepted by match, or nil when no tag matches.
	LatestTag(ctx context.Context, ref string, match func(name string) bool) (*Tag, error)

	// Commits lists commits reachable from to but not from from, newest
	// first. An empty from means the whole history of to.
	Commits(ctx context.Context, from, to string) ([]RawCommit, error)

	// ChangedFiles lists paths that differ between the trees of from and to.
	// An empty from compares against the empty tree.
	ChangedFiles(ctx context.Context, from, to string) ([]string, error)

	// Head resolves HEAD to a commit hash.
	Head(ctx context.Context) (string, error)

	// RemoteURL returns the first URL of the named remote, or "" if the
	// remote is not configured.
	RemoteURL(ctx context.Context, name string) (string, error)
}
