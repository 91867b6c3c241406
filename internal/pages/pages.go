// Package pages holds the generated-page registries. A page's identity
// is its (route, owning file) pair; a route may be owned by at most one
// file at a time.
package pages

import (
	"errors"
	"fmt"
)

// Page is one generated page.
type Page struct {
	Route string
	File  string // owning source file, relative to the site root
}

// ErrRouteCollision is returned when two different files try to own
// the same route. Collisions are a user error and are surfaced, never
// merged silently.
var ErrRouteCollision = errors.New("route already owned by another file")

// Registry is the page create/delete surface the sync engine drives.
// Create and Delete are idempotent.
type Registry interface {
	// CreatePage registers a page. Re-creating an identical page is a
	// no-op; a route owned by a different file is ErrRouteCollision.
	CreatePage(p Page) error
	// DeletePage removes a page if both route and owning file match.
	DeletePage(p Page) error
	// PagesByFile returns every page owned by the given file.
	PagesByFile(file string) ([]Page, error)
	// All returns every registered page, ordered by route.
	All() ([]Page, error)
}

func collisionError(route, owner, claimant string) error {
	return fmt.Errorf("route %q owned by %q, claimed by %q: %w", route, owner, claimant, ErrRouteCollision)
}
