// Package query validates the shape of a collection template's query.
// The query is never executed here: its parsed structure is inspected
// and everything else is left to the external query engine.
package query

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// CollectionFragment is the fixed fragment a collection query must
// spread as its outermost selection.
const CollectionFragment = "CollectionPagesQuery"

// ShapeError reports a query that does not match the required
// collection shape. The full query text is carried for diagnostics.
type ShapeError struct {
	Query  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("query does not match the collection shape (%s): %s", e.Reason, e.Query)
}

// Validate checks that the query's outermost selection is a spread of
// CollectionFragment.
func Validate(q string) error {
	doc, perr := parser.ParseQuery(&ast.Source{Input: q})
	if perr != nil {
		return &ShapeError{Query: q, Reason: perr.Error()}
	}
	if len(doc.Operations) == 0 {
		return &ShapeError{Query: q, Reason: "query has no operation"}
	}
	sel := doc.Operations[0].SelectionSet
	if len(sel) == 0 {
		return &ShapeError{Query: q, Reason: "operation has an empty selection set"}
	}
	spread, ok := sel[0].(*ast.FragmentSpread)
	if !ok {
		return &ShapeError{Query: q, Reason: "outermost selection must be a fragment spread"}
	}
	if spread.Name != CollectionFragment {
		return &ShapeError{Query: q,
			Reason: fmt.Sprintf("outermost spread must be ...%s, got ...%s", CollectionFragment, spread.Name)}
	}
	return nil
}
