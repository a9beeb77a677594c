// Package git provides the go-git backed repository access used by gitrelease:
// release tag lookup, commit range listing and tree diffs. It never shells out
// to the git CLI, so the binary works without git installed.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/ariel-frischer/gitrelease/internal/release"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repository implements release.Repository on top of go-git.
type Repository struct {
	repo *git.Repository
}

var _ release.Repository = (*Repository)(nil)

// New wraps an already opened go-git repository.
func New(repo *git.Repository) *Repository {
	return &Repository{repo: repo}
}

// Open opens the git repository containing path, walking up to find .git.
// If path is empty, the current working directory is used.
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	return New(repo), nil
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// Head resolves HEAD to a commit hash.
func (r *Repository) Head(ctx context.Context) (string, error) {
	h, err := r.resolveCommit("HEAD")
	if err != nil {
		return "", err
	}
	logDebug("[git] Head: %s", h)
	return h.String(), nil
}

// resolveCommit resolves a revision (ref name, short or full hash) to a commit hash.
func (r *Repository) resolveCommit(rev string) (plumbing.Hash, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, fmt.Errorf("resolving %s: repository has no commits yet: %w", rev, err)
		}
		return plumbing.ZeroHash, fmt.Errorf("resolving %s: %w", rev, err)
	}
	return *h, nil
}

// LatestTag returns the tag accepted by match that sits on the most recent
// commit reachable from ref. Commits are visited in committer-time order, so
// "most recent" means the first tagged commit found walking back from ref.
// When several accepted tags point at that commit, the highest version wins,
// so v1.0.0 beats v1.0.0-rc.1 and v1.10.0 beats v1.9.0.
func (r *Repository) LatestTag(ctx context.Context, ref string, match func(name string) bool) (*release.Tag, error) {
	tagged, err := r.tagsByCommit(match)
	if err != nil {
		return nil, err
	}
	if len(tagged) == 0 {
		logDebug("[git] LatestTag: no matching tags")
		return nil, nil
	}

	start, err := r.resolveCommit(ref)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{From: start, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", ref, err)
	}
	defer iter.Close()

	var found *release.Tag
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		names, ok := tagged[c.Hash]
		if !ok {
			return nil
		}
		found = &release.Tag{Name: highestName(names), Hash: c.Hash.String()}
		return storer.ErrStop
	})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", ref, err)
	}

	if found != nil {
		logDebug("[git] LatestTag: %s -> %s", found.Name, found.Hash)
	}
	return found, nil
}

// tagsByCommit maps commit hashes to the names of accepted tags pointing at
// them. Annotated tags are peeled; tags of non-commit objects are ignored.
func (r *Repository) tagsByCommit(match func(name string) bool) (map[plumbing.Hash][]string, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer refs.Close()

	tagged := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !match(name) {
			return nil
		}

		hash, ok, err := r.peelTag(ref.Hash())
		if err != nil {
			return fmt.Errorf("reading tag %s: %w", name, err)
		}
		if !ok {
			logDebug("[git] skipping tag %s: does not point at a commit", name)
			return nil
		}
		tagged[hash] = append(tagged[hash], name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	logDebug("[git] tagsByCommit: %d tagged commits", len(tagged))
	return tagged, nil
}

// peelTag resolves a tag reference target to a commit hash.
// Returns ok=false if the tag points at something other than a commit.
func (r *Repository) peelTag(target plumbing.Hash) (plumbing.Hash, bool, error) {
	tagObj, err := r.repo.TagObject(target)
	switch {
	case err == nil:
		commit, err := tagObj.Commit()
		if err != nil {
			if errors.Is(err, object.ErrUnsupportedObject) {
				return plumbing.ZeroHash, false, nil
			}
			return plumbing.ZeroHash, false, err
		}
		return commit.Hash, true, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		// Lightweight tag: the reference points straight at the object.
		if _, err := r.repo.CommitObject(target); err != nil {
			if errors.Is(err, plumbing.ErrObjectNotFound) {
				return plumbing.ZeroHash, false, nil
			}
			return plumbing.ZeroHash, false, err
		}
		return target, true, nil
	default:
		return plumbing.ZeroHash, false, err
	}
}

// Commits lists the commits reachable from to and not from from, newest
// first by committer time. An empty from lists the whole history of to.
func (r *Repository) Commits(ctx context.Context, from, to string) ([]release.RawCommit, error) {
	toHash, err := r.resolveCommit(to)
	if err != nil {
		return nil, err
	}
	head, err := r.repo.CommitObject(toHash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", toHash, err)
	}

	excluded, err := r.ancestors(ctx, from)
	if err != nil {
		return nil, err
	}

	var commits []release.RawCommit
	iter := object.NewCommitIterCTime(head, excluded, nil)
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := toRawCommit(c)
		if err != nil {
			return err
		}
		commits = append(commits, raw)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing commits %s..%s: %w", from, to, err)
	}

	logDebug("[git] Commits %s..%s: %d commits", shortRev(from), shortRev(to), len(commits))
	return commits, nil
}

// ancestors returns every commit reachable from rev, including rev itself.
// An empty rev has no ancestors.
func (r *Repository) ancestors(ctx context.Context, rev string) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)
	if rev == "" {
		return seen, nil
	}

	h, err := r.resolveCommit(rev)
	if err != nil {
		return nil, err
	}
	start, err := r.repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", h, err)
	}

	iter := object.NewCommitPreorderIter(start, nil, nil)
	defer iter.Close()
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking ancestors of %s: %w", rev, err)
	}
	return seen, nil
}

// toRawCommit converts a go-git commit, including the files it touched
// relative to its first parent.
func toRawCommit(c *object.Commit) (release.RawCommit, error) {
	subject, body, _ := strings.Cut(c.Message, "\n")

	files, err := commitFiles(c)
	if err != nil {
		return release.RawCommit{}, fmt.Errorf("listing files of %s: %w", c.Hash, err)
	}

	return release.RawCommit{
		Hash:    c.Hash.String(),
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(body),
		Author:  c.Author.Name,
		When:    c.Author.When,
		Files:   files,
	}, nil
}

// commitFiles diffs a commit against its first parent (or the empty tree).
func commitFiles(c *object.Commit) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, err
	}
	return changePaths(changes), nil
}

// ChangedFiles lists paths that differ between the trees of from and to.
// Renames contribute both the old and the new path.
func (r *Repository) ChangedFiles(ctx context.Context, from, to string) ([]string, error) {
	toTree, err := r.treeAt(to)
	if err != nil {
		return nil, err
	}

	var fromTree *object.Tree
	if from != "" {
		if fromTree, err = r.treeAt(from); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..%s: %w", shortRev(from), shortRev(to), err)
	}

	paths := changePaths(changes)
	logDebug("[git] ChangedFiles %s..%s: %d paths", shortRev(from), shortRev(to), len(paths))
	return paths, nil
}

// treeAt returns the tree of the commit rev resolves to.
func (r *Repository) treeAt(rev string) (*object.Tree, error) {
	h, err := r.resolveCommit(rev)
	if err != nil {
		return nil, err
	}
	c, err := r.repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", h, err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", h, err)
	}
	return tree, nil
}

// changePaths flattens tree changes into paths, in diff order.
func changePaths(changes object.Changes) []string {
	paths := make([]string, 0, len(changes))
	for _, ch := range changes {
		if ch.From.Name != "" {
			paths = append(paths, ch.From.Name)
		}
		if ch.To.Name != "" && ch.To.Name != ch.From.Name {
			paths = append(paths, ch.To.Name)
		}
	}
	return paths
}

// RemoteURL returns the first URL of the named remote, or "" when the remote
// does not exist.
func (r *Repository) RemoteURL(ctx context.Context, name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			logDebug("[git] RemoteURL: remote %q not found", name)
			return "", nil
		}
		return "", fmt.Errorf("reading remote %s: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

// shortRev abbreviates full hashes for log output.
func shortRev(rev string) string {
	if rev == "" {
		return "ROOT"
	}
	if len(rev) == 40 {
		return rev[:7]
	}
	return rev
}

// GitDir returns the path of the .git directory, or "" when the repository
// is not stored on disk.
func (r *Repository) GitDir() string {
	fs, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return ""
	}
	return fs.Filesystem().Root()
}

// IsNotRepository reports whether err means no repository was found.
func IsNotRepository(err error) bool {
	return errors.Is(err, git.ErrRepositoryNotExists)
}

// IsEmptyRepository reports whether err means HEAD does not point at a commit yet.
func IsEmptyRepository(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound)
}
