// Package watch re-runs a callback whenever the references of a git
// repository change: a new commit on the current branch, a checkout, a new
// or deleted tag.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is how long the watcher waits for a burst of reference
// updates to settle before calling back. A single commit touches several files.
const DefaultDebounce = 200 * time.Millisecond

// Watcher observes HEAD, packed-refs and everything under refs/heads and refs/tags.
type Watcher struct {
	gitDir   string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle time between the last event and the callback.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a watcher for the .git directory at gitDir.
func New(gitDir string, opts ...Option) (*Watcher, error) {
	if gitDir == "" {
		return nil, errors.New("watching repository: no .git directory on disk")
	}
	if _, err := os.Stat(gitDir); err != nil {
		return nil, fmt.Errorf("watching repository: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		gitDir:   gitDir,
		debounce: DefaultDebounce,
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange once immediately and again after every settled burst of
// reference changes. It returns nil once ctx is done, or the first error
// returned by onChange.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	parent := ctx

	if err := w.addTree(w.gitDir, false); err != nil {
		return err
	}
	for _, sub := range []string{"refs/heads", "refs/tags"} {
		if err := w.addTree(filepath.Join(w.gitDir, filepath.FromSlash(sub)), true); err != nil {
			return err
		}
	}

	if err := onChange(ctx); err != nil {
		return err
	}

	triggers := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.pumpEvents(ctx, triggers)
	})
	g.Go(func() error {
		return w.dispatch(ctx, triggers, onChange)
	})

	err := g.Wait()
	if parent.Err() != nil && errors.Is(err, parent.Err()) {
		return nil
	}
	return err
}

// pumpEvents turns relevant fsnotify events into triggers. Directories
// created under refs/ are watched as they appear.
func (w *Watcher) pumpEvents(ctx context.Context, triggers chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if event.Has(fsnotify.Create) && w.underRefs(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name, true); err != nil {
						return err
					}
				}
			}
			if !w.relevant(event) {
				continue
			}
			select {
			case triggers <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// dispatch debounces triggers and calls onChange once per burst.
func (w *Watcher) dispatch(ctx context.Context, triggers <-chan struct{}, onChange func(ctx context.Context) error) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-triggers:
			timer.Reset(w.debounce)
		case <-timer.C:
			if err := onChange(ctx); err != nil {
				return err
			}
		}
	}
}

// relevant reports whether an event can change HEAD or a release tag.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if strings.HasSuffix(event.Name, ".lock") || event.Op == fsnotify.Chmod {
		return false
	}
	if w.underRefs(event.Name) {
		return true
	}
	switch filepath.Base(event.Name) {
	case "HEAD", "packed-refs":
		return filepath.Dir(event.Name) == filepath.Clean(w.gitDir)
	default:
		return false
	}
}

func (w *Watcher) underRefs(path string) bool {
	rel, err := filepath.Rel(w.gitDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return strings.HasPrefix(rel, "refs/heads/") || strings.HasPrefix(rel, "refs/tags/")
}

// addTree watches dir, and every directory below it when recursive is set.
// A missing directory is created so new references are still seen.
func (w *Watcher) addTree(dir string, recursive bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if !recursive {
		return w.add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.add(path)
	})
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	return nil
}
