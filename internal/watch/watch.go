// Package watch adapts fsnotify to the engine's event-stream contract:
// an ordered stream of added/removed paths for one root + pattern,
// started once per session and never restarted.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/Krishjain2911/gatsby/internal/pagesync"
)

// FSWatcher emits pagesync events for files under root that match the
// glob pattern. Directories are registered recursively at start and as
// they appear; a write to an existing file surfaces as a removal
// followed by an addition, matching the engine's two-state model.
type FSWatcher struct {
	root    string
	pattern string
	fsw     *fsnotify.Watcher
	events  chan pagesync.Event
}

// New starts watching the root directory tree.
func New(root, pattern string) (*FSWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start watcher: %w", err)
	}
	w := &FSWatcher{
		root:    root,
		pattern: pattern,
		fsw:     fsw,
		events:  make(chan pagesync.Event),
	}
	if err := w.addDirs(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Events returns the translated event stream. The channel closes when
// the watcher shuts down.
func (w *FSWatcher) Events() <-chan pagesync.Event {
	return w.events
}

// Run translates raw notifications until the context ends or the
// underlying watcher closes.
func (w *FSWatcher) Run(ctx context.Context) error {
	defer close(w.events)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if err := w.translate(ctx, ev); err != nil {
				return err
			}
		}
	}
}

// Close shuts the watcher down. The owning process calls this once the
// session ends.
func (w *FSWatcher) Close() error {
	return w.fsw.Close()
}

func (w *FSWatcher) translate(ctx context.Context, ev fsnotify.Event) error {
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			return w.addDirs(ev.Name)
		}
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "..") {
		return nil
	}
	if matched, _ := doublestar.Match(w.pattern, rel); !matched {
		return nil
	}

	var out []pagesync.Event
	switch {
	case ev.Op.Has(fsnotify.Create):
		out = []pagesync.Event{{Kind: pagesync.FileAdded, Path: rel}}
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		out = []pagesync.Event{{Kind: pagesync.FileRemoved, Path: rel}}
	case ev.Op.Has(fsnotify.Write):
		// A change is observed as remove + add; the engine re-derives
		// the file's pages from scratch.
		out = []pagesync.Event{
			{Kind: pagesync.FileRemoved, Path: rel},
			{Kind: pagesync.FileAdded, Path: rel},
		}
	}
	for _, e := range out {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case w.events <- e:
		}
	}
	return nil
}

// addDirs registers dir and every directory below it.
func (w *FSWatcher) addDirs(dir string) error {
	return filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
