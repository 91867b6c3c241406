// Package api defines the data types exchanged with the external query
// engine: records, parent references, and the resolver capability used
// to follow them.
package api

// Record is an opaque data record supplied by the query engine.
// Fields holds the named values (nested objects appear as
// map[string]any); Parent, when set, is a weak back-reference to
// another record.
type Record struct {
	// Fields maps field names to values.
	Fields map[string]any `json:"fields"`
	// Parent is the optional back-reference to the record's parent.
	Parent *ParentRef `json:"parent,omitempty"`
}

// Field returns the named top-level field value.
func (r *Record) Field(name string) (any, bool) {
	if r == nil || r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// ParentRef is a weak, identifier-based link to another record.
// It never owns the target: Node is only set once the reference has
// been realized through a ParentResolver.
type ParentRef struct {
	// ID identifies the parent record.
	ID string `json:"id"`
	// Node is the realized parent, nil until resolved.
	Node *Record `json:"-"`
}

// ParentResolver turns a parent identifier into a realized record.
// Implementations are supplied by the external query engine.
type ParentResolver func(id string) (*Record, error)
