package release

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// fakeRepository is an in-memory linear history, newest commit first.
type fakeRepository struct {
	commits []RawCommit
	// tags maps commit hash to tag names on it.
	tags    map[string][]string
	remotes map[string]string

	headErr    error
	tagErr     error
	commitsErr error
	filesErr   error
	remoteErr  error
}

var _ Repository = (*fakeRepository)(nil)

var errFake = errors.New("fake failure")

// newFakeRepository builds a history from subjects listed oldest first, so
// tests read in the order the commits were made.
func newFakeRepository(subjects ...string) *fakeRepository {
	r := &fakeRepository{tags: map[string][]string{}, remotes: map[string]string{}}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range subjects {
		c := RawCommit{
			Hash:    fmt.Sprintf("%040d", i+1),
			Subject: s,
			When:    base.Add(time.Duration(i) * time.Hour),
			Files:   []string{fmt.Sprintf("file%d.go", i+1)},
		}
		r.commits = append([]RawCommit{c}, r.commits...)
	}
	return r
}

// hash returns the hash of the n-th commit made, counting from 1.
func (r *fakeRepository) hash(n int) string {
	return fmt.Sprintf("%040d", n)
}

func (r *fakeRepository) tag(n int, name string) *fakeRepository {
	h := r.hash(n)
	r.tags[h] = append(r.tags[h], name)
	return r
}

func (r *fakeRepository) withFiles(n int, files ...string) *fakeRepository {
	h := r.hash(n)
	for i := range r.commits {
		if r.commits[i].Hash == h {
			r.commits[i].Files = files
		}
	}
	return r
}

func (r *fakeRepository) Head(_ context.Context) (string, error) {
	if r.headErr != nil {
		return "", r.headErr
	}
	if len(r.commits) == 0 {
		return "", errors.New("repository has no commits yet")
	}
	return r.commits[0].Hash, nil
}

func (r *fakeRepository) LatestTag(_ context.Context, _ string, match func(string) bool) (*Tag, error) {
	if r.tagErr != nil {
		return nil, r.tagErr
	}
	for _, c := range r.commits {
		for _, name := range r.tags[c.Hash] {
			if match(name) {
				return &Tag{Name: name, Hash: c.Hash}, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeRepository) Commits(_ context.Context, from, to string) ([]RawCommit, error) {
	if r.commitsErr != nil {
		return nil, r.commitsErr
	}
	var out []RawCommit
	started := false
	for _, c := range r.commits {
		if c.Hash == to {
			started = true
		}
		if c.Hash == from {
			break
		}
		if started {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepository) ChangedFiles(ctx context.Context, from, to string) ([]string, error) {
	if r.filesErr != nil {
		return nil, r.filesErr
	}
	commits, err := r.Commits(ctx, from, to)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, c := range commits {
		files = append(files, c.Files...)
	}
	return files, nil
}

func (r *fakeRepository) RemoteURL(_ context.Context, name string) (string, error) {
	if r.remoteErr != nil {
		return "", r.remoteErr
	}
	return r.remotes[name], nil
}
