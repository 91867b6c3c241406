package pages

import (
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// MemoryRegistry keeps the page set in memory.
//
// Routes are interned to uint32 ids and a roaring bitmap per file
// indexes its pages, so PagesByFile is O(k) in the file's page count
// instead of a scan of the whole set. Collection template files own
// many pages, which makes that lookup the hot path of file removal.
type MemoryRegistry struct {
	mu          sync.RWMutex
	byRoute     map[string]Page
	fileToPages map[string]*roaring.Bitmap // owning file -> bitmap of route ids
	routeIntID  map[string]uint32          // route -> interned id
	intToRoute  []string                   // reverse: id -> route
	nextIntID   uint32
}

// NewMemoryRegistry returns an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		byRoute:     make(map[string]Page),
		fileToPages: make(map[string]*roaring.Bitmap),
		routeIntID:  make(map[string]uint32),
	}
}

// CreatePage implements Registry.
func (m *MemoryRegistry) CreatePage(p Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.byRoute[p.Route]; ok {
		if existing.File == p.File {
			return nil // idempotent re-create
		}
		return collisionError(p.Route, existing.File, p.File)
	}
	m.byRoute[p.Route] = p

	id, ok := m.routeIntID[p.Route]
	if !ok {
		id = m.nextIntID
		m.nextIntID++
		m.routeIntID[p.Route] = id
		m.intToRoute = append(m.intToRoute, p.Route)
	}
	bm, ok := m.fileToPages[p.File]
	if !ok {
		bm = roaring.New()
		m.fileToPages[p.File] = bm
	}
	bm.Add(id)
	return nil
}

// DeletePage implements Registry.
func (m *MemoryRegistry) DeletePage(p Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byRoute[p.Route]
	if !ok || existing.File != p.File {
		return nil
	}
	delete(m.byRoute, p.Route)

	if bm, ok := m.fileToPages[p.File]; ok {
		if id, ok := m.routeIntID[p.Route]; ok {
			bm.Remove(id)
		}
		if bm.IsEmpty() {
			delete(m.fileToPages, p.File)
		}
	}
	return nil
}

// PagesByFile implements Registry.
func (m *MemoryRegistry) PagesByFile(file string) ([]Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bm, ok := m.fileToPages[file]
	if !ok {
		return nil, nil
	}
	out := make([]Page, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		route := m.intToRoute[it.Next()]
		if p, ok := m.byRoute[route]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out, nil
}

// All implements Registry.
func (m *MemoryRegistry) All() ([]Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Page, 0, len(m.byRoute))
	for _, p := range m.byRoute {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out, nil
}
