package release

import (
	"context"
	"sort"
	"strings"
)

// CollectChangedFiles lists the paths touched between the boundary (exclusive)
// and head (inclusive). With a subdir, only paths under it are kept and the
// prefix is stripped. The result is deduplicated and sorted.
func CollectChangedFiles(ctx context.Context, repo Repository, boundary ReleaseBoundary, head, subdir string) ([]string, error) {
	paths, err := repo.ChangedFiles(ctx, boundary.Hash, head)
	if err != nil {
		return nil, &AccessError{Op: "listing changed files", Err: err}
	}
	return NormalizeFiles(paths, subdir), nil
}

// NormalizeFiles filters paths to subdir (stripping the prefix), removes
// duplicates and sorts lexicographically. It is idempotent.
func NormalizeFiles(paths []string, subdir string) []string {
	prefix := CleanSubdir(subdir)
	if prefix != "" {
		prefix += "/"
	}

	seen := make(map[string]bool, len(paths))
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if prefix != "" {
			if !strings.HasPrefix(p, prefix) {
				continue
			}
			p = strings.TrimPrefix(p, prefix)
			if p == "" {
				continue
			}
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		files = append(files, p)
	}

	sort.Strings(files)
	return files
}
