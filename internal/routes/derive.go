package routes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Krishjain2911/gatsby/api"
)

// FieldResolutionError reports a required field reference that could
// not be resolved for a specific record.
type FieldResolutionError struct {
	SlugPart       string // the offending segment text
	TransformedKey string // the dotted field path that failed
	Err            error  // underlying cause, if any
}

func (e *FieldResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not resolve %q for slug part %q: %v", e.TransformedKey, e.SlugPart, e.Err)
	}
	return fmt.Sprintf("could not resolve %q for slug part %q", e.TransformedKey, e.SlugPart)
}

func (e *FieldResolutionError) Unwrap() error { return e.Err }

// Derive produces the route for one record. It is a pure computation:
// the record and template are never mutated, so concurrent calls are
// safe. Empty optional segments collapse under the separator join, and
// the result always leads with "/" so templated and fixed pages share
// one route namespace.
func Derive(tpl *Template, rec *api.Record, resolve api.ParentResolver) (string, error) {
	parts := make([]string, 0, len(tpl.Segments))
	for _, seg := range tpl.Segments {
		if seg.Field == nil {
			if seg.Literal != "" {
				parts = append(parts, seg.Literal)
			}
			continue
		}
		val, err := resolveField(seg.Field, rec, resolve)
		if err != nil {
			if seg.Field.Optional {
				continue
			}
			return "", err
		}
		if val != "" {
			parts = append(parts, val)
		}
	}
	return "/" + strings.Join(parts, "/"), nil
}

// errMissing marks a field miss; callers decide whether the reference
// was optional.
type errMissing struct{ component string }

func (e errMissing) Error() string { return "missing field " + e.component }

func resolveField(ref *FieldRef, rec *api.Record, resolve api.ParentResolver) (string, error) {
	fail := func(err error) (string, error) {
		return "", &FieldResolutionError{SlugPart: ref.Raw, TransformedKey: ref.Key(), Err: err}
	}

	root := rec
	if ref.ViaParent {
		parent, err := realizeParent(rec, resolve)
		if err != nil {
			return fail(err)
		}
		root = parent
	}

	var cur any = root.Fields
	for _, comp := range ref.Path {
		m, ok := cur.(map[string]any)
		if !ok {
			return fail(errMissing{comp})
		}
		cur, ok = m[comp]
		if !ok {
			return fail(errMissing{comp})
		}
	}
	if cur == nil {
		// null after full traversal is treated as missing
		return fail(errMissing{ref.Path[len(ref.Path)-1]})
	}
	return stringify(cur), nil
}

// realizeParent follows the record's parent link: a record already
// holding a realized parent is used as-is, otherwise the string
// identifier is resolved through the supplied capability. A single hop.
func realizeParent(rec *api.Record, resolve api.ParentResolver) (*api.Record, error) {
	if rec.Parent == nil {
		return nil, errMissing{parentComponent}
	}
	if rec.Parent.Node != nil {
		return rec.Parent.Node, nil
	}
	if rec.Parent.ID == "" || resolve == nil {
		return nil, errMissing{parentComponent}
	}
	parent, err := resolve(rec.Parent.ID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, errMissing{parentComponent}
	}
	return parent, nil
}

// stringify converts a resolved value to its canonical string form.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
