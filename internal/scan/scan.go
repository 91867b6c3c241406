// Package scan discovers collection template files under the site
// root and populates the collection registry from them. It runs once
// at startup, before any resolution call can read the registry.
package scan

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/Krishjain2911/gatsby/internal/collection"
	"github.com/Krishjain2911/gatsby/internal/diag"
	"github.com/Krishjain2911/gatsby/internal/query"
	"github.com/Krishjain2911/gatsby/internal/routes"
)

// Scanner finds bracket-template files and registers them.
type Scanner struct {
	FS       billy.Filesystem
	Root     string // site root within FS
	Pattern  string // page glob, e.g. "**/*.js"
	Registry *collection.Registry
	Sink     diag.Sink
}

// Scan walks the root once. Per-file failures (syntax, query shape,
// duplicate plural name) are reported through the sink and skip only
// that file; walk and read failures abort the scan.
func (s *Scanner) Scan() error {
	return util.Walk(s.FS, s.Root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel := s.rel(p)
		// Same gate as the page fan-out: a bracket anywhere in the
		// path makes the file a template.
		if !routes.IsTemplatePath(rel) {
			return nil
		}
		if matched, _ := doublestar.Match(s.Pattern, rel); !matched {
			return nil
		}
		return s.registerTemplate(p, rel)
	})
}

func (s *Scanner) registerTemplate(fullPath, rel string) error {
	tpl, err := routes.ParseTemplate(rel)
	if err != nil {
		s.Sink.Report(diag.CodeTemplateSyntax, err, map[string]string{"file": rel})
		return nil
	}

	src, err := util.ReadFile(s.FS, fullPath)
	if err != nil {
		return fmt.Errorf("read template %s: %w", rel, err)
	}
	q, ok, err := query.ExtractCollectionQuery(src)
	if err != nil {
		return fmt.Errorf("extract query from %s: %w", rel, err)
	}
	if !ok {
		s.Sink.Report(diag.CodeMissingQuery,
			fmt.Errorf("template %s declares no %s query", rel, query.CollectionTag),
			map[string]string{"file": rel})
		return nil
	}
	if err := query.Validate(q); err != nil {
		s.Sink.Report(diag.CodeQueryShape, err, map[string]string{"file": rel})
		return nil
	}

	entry := collection.Entry{
		PluralName: collection.Pluralize(tpl.Model()),
		Template:   tpl,
		FilePath:   rel,
	}
	if err := s.Registry.Register(entry); err != nil {
		s.Sink.Report(diag.CodeDuplicateTemplate, err, map[string]string{"file": rel})
	}
	return nil
}

// rel strips the scan root from a walked path.
func (s *Scanner) rel(p string) string {
	if s.Root == "" || s.Root == "." {
		return strings.TrimPrefix(p, "./")
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, s.Root), "/")
}
