// Package pagesync keeps the generated page set synchronized with the
// source tree: a full initial scan followed by incremental application
// of watch events, never a rebuild.
package pagesync

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/Krishjain2911/gatsby/internal/diag"
	"github.com/Krishjain2911/gatsby/internal/pages"
)

// EventKind classifies a watch event.
type EventKind int

const (
	FileAdded EventKind = iota
	FileRemoved
)

// Event is one add/remove notification from the watch collaborator.
// Path is relative to the site root.
type Event struct {
	Kind EventKind
	Path string
}

// ConfigurationError reports a site root that is missing or unreadable.
// It aborts the session before any scanning happens.
type ConfigurationError struct {
	Root string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("site root %q: %v", e.Root, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ReconciliationError reports an unexpected failure while applying a
// watch event. It is fatal to the session: a visible stop beats silent
// drift.
type ReconciliationError struct {
	Path string
	Err  error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconcile %q: %v", e.Path, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// PagesFunc maps a source file to the pages it owns. A plain file owns
// one page; a collection template file owns one per record.
type PagesFunc func(path string) ([]pages.Page, error)

// Engine reconciles the page set against file-system state. All state
// mutation happens on the single goroutine that calls InitialScan and
// Run; only the page registry is read from elsewhere.
type Engine struct {
	fs       billy.Filesystem
	root     string
	pattern  string
	pagesFor PagesFunc
	registry pages.Registry
	sink     diag.Sink
	known    map[string]struct{}
}

// New builds an engine for one session.
func New(fs billy.Filesystem, root, pattern string, pagesFor PagesFunc, registry pages.Registry, sink diag.Sink) *Engine {
	return &Engine{
		fs:       fs,
		root:     root,
		pattern:  pattern,
		pagesFor: pagesFor,
		registry: registry,
		sink:     sink,
		known:    make(map[string]struct{}),
	}
}

// InitialScan enumerates every matching file under the root and creates
// its pages. It runs to completion before incremental processing may
// begin; its return bounds the session's ready signal.
func (e *Engine) InitialScan() error {
	if _, err := e.fs.Stat(e.root); err != nil {
		cfgErr := &ConfigurationError{Root: e.root, Err: err}
		e.sink.Report(diag.CodeConfiguration, cfgErr, map[string]string{"root": e.root})
		return cfgErr
	}
	return util.Walk(e.fs, e.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel := e.rel(p)
		if matched, _ := doublestar.Match(e.pattern, rel); !matched {
			return nil
		}
		return e.add(rel)
	})
}

// Run consumes the watch event stream until it closes or the context
// is cancelled. Events are applied strictly in delivery order; any
// failure is reported and ends the session.
func (e *Engine) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := e.Handle(ev); err != nil {
				return err
			}
		}
	}
}

// Handle applies a single event.
func (e *Engine) Handle(ev Event) error {
	var err error
	switch ev.Kind {
	case FileAdded:
		err = e.add(ev.Path)
	case FileRemoved:
		err = e.remove(ev.Path)
	default:
		err = fmt.Errorf("unknown event kind %d", ev.Kind)
	}
	if err != nil {
		recErr := &ReconciliationError{Path: ev.Path, Err: err}
		e.sink.Report(diag.CodeReconciliation, recErr, map[string]string{"path": ev.Path})
		return recErr
	}
	return nil
}

// add creates the pages for a path. Duplicate adds are pure no-ops so
// a doubled event can never double-create a page.
func (e *Engine) add(path string) error {
	if _, ok := e.known[path]; ok {
		return nil
	}
	owned, err := e.pagesFor(path)
	if err != nil {
		return err
	}
	for _, p := range owned {
		if err := e.registry.CreatePage(p); err != nil {
			return err
		}
	}
	e.known[path] = struct{}{}
	return nil
}

// remove deletes every page owned by the path. The path leaves the
// known set regardless of whether any page matched, tolerating a
// remove that raced with a failed earlier create.
func (e *Engine) remove(path string) error {
	owned, err := e.registry.PagesByFile(path)
	if err != nil {
		return err
	}
	for _, p := range owned {
		if err := e.registry.DeletePage(p); err != nil {
			return err
		}
	}
	delete(e.known, path)
	return nil
}

// Known returns the tracked file paths, sorted. For tests and status
// reporting.
func (e *Engine) Known() []string {
	out := make([]string, 0, len(e.known))
	for p := range e.known {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// rel strips the scan root from a walked path.
func (e *Engine) rel(p string) string {
	if e.root == "" || e.root == "." {
		return strings.TrimPrefix(p, "./")
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, e.root), "/")
}
