package collection

import (
	"errors"
	"fmt"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/Krishjain2911/gatsby/api"
	"github.com/Krishjain2911/gatsby/internal/diag"
	"github.com/Krishjain2911/gatsby/internal/pages"
	"github.com/Krishjain2911/gatsby/internal/query"
	"github.com/Krishjain2911/gatsby/internal/routes"
)

// RecordSource serves the data records of a plural type. The JSON
// datastore implements it; a real query engine would too.
type RecordSource interface {
	Records(pluralName string) ([]*api.Record, error)
}

// Source maps a source file to the pages it owns: a plain file owns
// exactly one fixed page, a bracket-template file owns one page per
// record of its model. All family pages name the template file as
// owner, so removing that file removes the whole family.
//
// A template file must pass the same query gate the startup scan
// applies before it fans out; FS and Root locate the file's source
// for that check.
type Source struct {
	FS      billy.Filesystem
	Root    string // site root within FS
	Records RecordSource
	Resolve api.ParentResolver
	Sink    diag.Sink
}

// PagesFor computes the page set a file owns.
//
// Template errors are scoped to the file: a malformed template, a
// missing or mis-shaped query, or a per-record required-field miss is
// reported through the sink and yields no page for that file or
// record, without failing the caller.
func (s *Source) PagesFor(relPath string) ([]pages.Page, error) {
	if !routes.IsTemplatePath(relPath) {
		return []pages.Page{{Route: routes.RouteForFile(relPath), File: relPath}}, nil
	}

	tpl, err := routes.ParseTemplate(relPath)
	if err != nil {
		s.Sink.Report(diag.CodeTemplateSyntax, err, map[string]string{"file": relPath})
		return nil, nil
	}
	if ok, err := s.acceptQuery(relPath); err != nil || !ok {
		return nil, err
	}

	plural := Pluralize(tpl.Model())
	recs, err := s.Records.Records(plural)
	if err != nil {
		return nil, fmt.Errorf("records for %q: %w", plural, err)
	}

	out := make([]pages.Page, 0, len(recs))
	for _, rec := range recs {
		route, err := routes.Derive(tpl, rec, s.Resolve)
		if err != nil {
			var resErr *routes.FieldResolutionError
			if errors.As(err, &resErr) {
				s.Sink.Report(diag.CodeFieldResolution, err, map[string]string{
					"file": relPath,
					"key":  resErr.TransformedKey,
				})
				continue
			}
			return nil, err
		}
		out = append(out, pages.Page{Route: route, File: relPath})
	}
	return out, nil
}

// acceptQuery applies the scan-time query gate: only a template whose
// declared query matches the collection shape may produce pages.
func (s *Source) acceptQuery(relPath string) (bool, error) {
	full := relPath
	if s.Root != "" && s.Root != "." {
		full = path.Join(s.Root, relPath)
	}
	src, err := util.ReadFile(s.FS, full)
	if err != nil {
		return false, fmt.Errorf("read template %s: %w", relPath, err)
	}
	q, ok, err := query.ExtractCollectionQuery(src)
	if err != nil {
		return false, fmt.Errorf("extract query from %s: %w", relPath, err)
	}
	if !ok {
		s.Sink.Report(diag.CodeMissingQuery,
			fmt.Errorf("template %s declares no %s query", relPath, query.CollectionTag),
			map[string]string{"file": relPath})
		return false, nil
	}
	if err := query.Validate(q); err != nil {
		s.Sink.Report(diag.CodeQueryShape, err, map[string]string{"file": relPath})
		return false, nil
	}
	return true, nil
}
