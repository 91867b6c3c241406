// Package collection maps plural record-type names to the template
// files that drive their routes, and fans a template file out into one
// page per matching record.
package collection

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Krishjain2911/gatsby/api"
	"github.com/Krishjain2911/gatsby/internal/routes"
)

// ErrDuplicateTemplate is returned when a second template file claims
// a plural type name that is already registered. First registration
// wins; the scanner reports the loser and keeps going.
var ErrDuplicateTemplate = errors.New("plural type already has a template")

// ErrUnknownCollection is returned by route derivation for a plural
// type no template was registered for.
var ErrUnknownCollection = errors.New("no template registered for plural type")

// Entry is one registered collection template. Immutable once built.
type Entry struct {
	PluralName string
	Template   *routes.Template
	FilePath   string
}

// Registry is the plural-name -> template table. Construction happens
// single-threaded during the startup scan; reads afterwards may come
// from arbitrarily many concurrent resolution calls, so lookups take a
// read lock.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register inserts an entry. A duplicate plural name fails with
// ErrDuplicateTemplate and leaves the first registration in place.
func (r *Registry) Register(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[e.PluralName]; ok {
		return fmt.Errorf("%q already registered by %q, rejected %q: %w",
			e.PluralName, existing.FilePath, e.FilePath, ErrDuplicateTemplate)
	}
	r.entries[e.PluralName] = e
	return nil
}

// Lookup returns the entry for a plural type name.
func (r *Registry) Lookup(pluralName string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[pluralName]
	return e, ok
}

// Plurals returns the registered plural type names, sorted.
func (r *Registry) Plurals() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DeriveRoute computes the route for one record of the given plural
// type. This is the entry point the external query engine calls when
// it renders a collection-typed path field.
func (r *Registry) DeriveRoute(pluralName string, rec *api.Record, resolve api.ParentResolver) (string, error) {
	e, ok := r.Lookup(pluralName)
	if !ok {
		return "", fmt.Errorf("%q: %w", pluralName, ErrUnknownCollection)
	}
	return routes.Derive(e.Template, rec, resolve)
}

// Pluralize maps a model name to its plural query name.
func Pluralize(model string) string {
	return "all" + model
}
