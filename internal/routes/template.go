// Package routes implements the collection path template grammar and
// the derivation of concrete route strings from data records.
//
// A template file path embeds bracket expressions in its segments:
//
//	{Post.slug}/{Post.category}!.js
//
// Each templated segment is exactly one {Model.field.path} expression.
// The first dotted component names the model; the rest is the field
// path walked from the record root. A trailing "!" (after the closing
// brace, or on the last path component) marks the reference required;
// without it a missing field renders as an empty segment.
package routes

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// TemplateSyntaxError reports a malformed bracket segment. It names the
// offending segment text so the diagnostics sink can surface it.
type TemplateSyntaxError struct {
	Segment string
	Reason  string
}

func (e *TemplateSyntaxError) Error() string {
	return fmt.Sprintf("template syntax error in segment %q: %s", e.Segment, e.Reason)
}

// FieldRef is one field reference inside a template.
type FieldRef struct {
	Raw       string   // original segment text, kept for diagnostics
	Model     string   // model name, consumed from the first dotted component
	Path      []string // field path walked from the record root
	Optional  bool     // missing field renders as an empty segment
	ViaParent bool     // first hop goes through the record's parent link
}

// Key returns the dotted field path, parent hop included.
func (f *FieldRef) Key() string {
	if f.ViaParent {
		return "parent." + strings.Join(f.Path, ".")
	}
	return strings.Join(f.Path, ".")
}

// Segment is one path segment of a template: either literal text or a
// single field reference.
type Segment struct {
	Literal string
	Field   *FieldRef // nil for literal segments
}

// Template is the parsed form of a template file path.
type Template struct {
	Raw      string // original relative path
	Segments []Segment
}

// Model returns the model name the template's field references share.
func (t *Template) Model() string {
	for _, s := range t.Segments {
		if s.Field != nil {
			return s.Field.Model
		}
	}
	return ""
}

// A templated segment is exactly one bracket expression, optionally
// followed by a required marker.
var bracketSegment = regexp.MustCompile(`^\{([^{}]*)\}(!)?$`)

// ParseTemplate parses a relative template file path. The file
// extension is stripped from the final segment before parsing.
func ParseTemplate(relPath string) (*Template, error) {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(relPath), "/"))
	segs := strings.Split(clean, "/")
	// Only a real trailing extension is stripped: a dot inside the
	// bracket expression of an extensionless path is field syntax.
	if ext := path.Ext(segs[len(segs)-1]); ext != "" && !strings.ContainsAny(ext, "{}") {
		segs[len(segs)-1] = strings.TrimSuffix(segs[len(segs)-1], ext)
	}

	tpl := &Template{Raw: relPath, Segments: make([]Segment, 0, len(segs))}
	model := ""
	for _, seg := range segs {
		if !strings.ContainsAny(seg, "{}") {
			tpl.Segments = append(tpl.Segments, Segment{Literal: seg})
			continue
		}
		ref, err := parseFieldRef(seg)
		if err != nil {
			return nil, err
		}
		if model == "" {
			model = ref.Model
		} else if ref.Model != model {
			return nil, &TemplateSyntaxError{Segment: seg,
				Reason: fmt.Sprintf("model %q conflicts with %q used earlier in the template", ref.Model, model)}
		}
		tpl.Segments = append(tpl.Segments, Segment{Field: ref})
	}
	if model == "" {
		return nil, &TemplateSyntaxError{Segment: clean, Reason: "template contains no field reference"}
	}
	return tpl, nil
}

func parseFieldRef(seg string) (*FieldRef, error) {
	m := bracketSegment.FindStringSubmatch(seg)
	if m == nil {
		return nil, &TemplateSyntaxError{Segment: seg,
			Reason: "segment must be exactly one {Model.field} expression"}
	}
	required := m[2] == "!"

	parts := strings.Split(m[1], ".")
	if len(parts) < 2 {
		return nil, &TemplateSyntaxError{Segment: seg,
			Reason: "expression needs a model name and at least one field"}
	}
	// The required marker may also sit on the last field component.
	last := parts[len(parts)-1]
	if strings.HasSuffix(last, "!") {
		required = true
		parts[len(parts)-1] = strings.TrimSuffix(last, "!")
	}
	for _, p := range parts {
		if p == "" {
			return nil, &TemplateSyntaxError{Segment: seg, Reason: "empty field path component"}
		}
	}

	ref := &FieldRef{
		Raw:      seg,
		Model:    parts[0],
		Path:     parts[1:],
		Optional: !required,
	}
	if ref.Path[0] == parentComponent {
		ref.ViaParent = true
		ref.Path = ref.Path[1:]
		if len(ref.Path) == 0 {
			return nil, &TemplateSyntaxError{Segment: seg,
				Reason: "parent reference needs a field path after the parent hop"}
		}
	}
	return ref, nil
}

// parentComponent marks a field path that starts at the record's
// parent instead of the record itself.
const parentComponent = "parent"

// IsTemplatePath reports whether a relative file path carries a
// bracket expression in any of its segments.
func IsTemplatePath(relPath string) bool {
	return strings.ContainsRune(relPath, '{')
}
