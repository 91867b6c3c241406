// Package datastore is a JSON-backed stand-in for the external query
// engine: it serves data records per plural type name and resolves
// parent identifiers.
//
// A records document maps plural type names to arrays of objects:
//
//	{
//	  "allPost": [
//	    {"id": "p1", "slug": "hello", "parent": "s1"},
//	    {"id": "p2", "slug": "world"}
//	  ],
//	  "allSection": [
//	    {"id": "s1", "slug": "news"}
//	  ]
//	}
//
// A record's "parent" field, when present, is a string identifier
// understood as a weak back-reference; it never appears among the
// record's own fields.
package datastore

import (
	"fmt"
	"os"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/Krishjain2911/gatsby/api"
)

// Store holds a parsed records document.
type Store struct {
	doc any
}

// Load reads and parses a records document from disk.
func Load(path string) (*Store, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records %s: %w", path, err)
	}
	return Parse(content)
}

// Parse builds a store from raw JSON.
func Parse(content []byte) (*Store, error) {
	doc, err := oj.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("records document must be an object of plural type arrays, got %T", doc)
	}
	return &Store{doc: doc}, nil
}

// Records returns every record of the given plural type, in document
// order. An unknown plural type yields an empty slice.
func (s *Store) Records(pluralName string) ([]*api.Record, error) {
	x, err := jp.ParseString(fmt.Sprintf("$.%s[*]", pluralName))
	if err != nil {
		return nil, fmt.Errorf("plural type %q: %w", pluralName, err)
	}
	results := x.Get(s.doc)
	out := make([]*api.Record, 0, len(results))
	for _, r := range results {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record of %q is %T, want object", pluralName, r)
		}
		out = append(out, toRecord(m))
	}
	return out, nil
}

// Resolve finds a record by id across all plural types. It satisfies
// api.ParentResolver.
func (s *Store) Resolve(id string) (*api.Record, error) {
	if strings.ContainsAny(id, `'"`) {
		return nil, fmt.Errorf("record id %q contains quoting", id)
	}
	x, err := jp.ParseString(fmt.Sprintf("$.*[?(@.id == '%s')]", id))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", id, err)
	}
	results := x.Get(s.doc)
	if len(results) == 0 {
		return nil, fmt.Errorf("no record with id %q", id)
	}
	m, ok := results[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("record %q is %T, want object", id, results[0])
	}
	return toRecord(m), nil
}

// toRecord converts a raw object into an api.Record, lifting the
// "parent" identifier into a weak reference.
func toRecord(m map[string]any) *api.Record {
	rec := &api.Record{Fields: make(map[string]any, len(m))}
	for k, v := range m {
		if k == "parent" {
			if id, ok := v.(string); ok && id != "" {
				rec.Parent = &api.ParentRef{ID: id}
			}
			continue
		}
		rec.Fields[k] = v
	}
	return rec
}
