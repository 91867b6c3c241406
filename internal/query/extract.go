package query

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// CollectionTag is the tag function a template file uses to declare
// its collection query:
//
//	const query = collectionGraphql`{ ...CollectionPagesQuery }`
const CollectionTag = "collectionGraphql"

// ExtractCollectionQuery parses a template file's JavaScript source
// and returns the query string passed to the collectionGraphql tag.
// ok is false when the file declares no query.
func ExtractCollectionQuery(src []byte) (query string, ok bool, err error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return "", false, fmt.Errorf("parse template source: %w", err)
	}
	defer tree.Close()

	query, ok = findTaggedQuery(tree.RootNode(), src)
	return query, ok, nil
}

// findTaggedQuery walks the syntax tree for a call_expression whose
// function is the collectionGraphql identifier and returns the literal
// it is applied to.
func findTaggedQuery(n *sitter.Node, src []byte) (string, bool) {
	if n.Type() == "call_expression" {
		fn := n.ChildByFieldName("function")
		if fn != nil && fn.Type() == "identifier" && nodeText(fn, src) == CollectionTag {
			if q, ok := literalArgument(n, src); ok {
				return q, true
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if q, ok := findTaggedQuery(n.NamedChild(i), src); ok {
			return q, true
		}
	}
	return "", false
}

// literalArgument extracts the string content from either a tagged
// template literal or a plain string argument.
func literalArgument(call *sitter.Node, src []byte) (string, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", false
	}
	switch args.Type() {
	case "template_string":
		return trimDelimiters(nodeText(args, src), "`"), true
	case "arguments":
		for i := 0; i < int(args.NamedChildCount()); i++ {
			child := args.NamedChild(i)
			switch child.Type() {
			case "template_string":
				return trimDelimiters(nodeText(child, src), "`"), true
			case "string":
				text := nodeText(child, src)
				text = trimDelimiters(text, `"`)
				text = trimDelimiters(text, `'`)
				return text, true
			}
		}
	}
	return "", false
}

func nodeText(n *sitter.Node, src []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if start >= uint32(len(src)) || end > uint32(len(src)) {
		return ""
	}
	return string(src[start:end])
}

func trimDelimiters(s, delim string) string {
	s = strings.TrimPrefix(s, delim)
	return strings.TrimSuffix(s, delim)
}
