// Package querycatalog holds named, typed queries over a parsed syntax
// tree: one pure function per query, `(tree) -> []TypedResult`, executed by
// a single tree walk per file. Each query's result type is stable; a
// higher-level view composes several queries' result vectors into one
// product type without mixing element types across fields.
package querycatalog

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codegraph/parserpool"
)

// Location mirrors domain.Location but is independent of it: the catalog
// produces raw, language-level positions; the extractor is the layer that
// turns these into domain.Location values attached to nodes and edges.
type Location struct {
	Line        int
	Column      int
	StartOffset int
	EndOffset   int
	EndLine     int
	EndColumn   int
}

func locationOf(n *sitter.Node) Location {
	start, end := n.StartPoint(), n.EndPoint()
	return Location{
		Line:        int(start.Row) + 1,
		Column:      int(start.Column) + 1,
		StartOffset: int(n.StartByte()),
		EndOffset:   int(n.EndByte()),
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column) + 1,
	}
}

// Match is one raw hit of a node-type based query: the matched node and its
// text, before a query's Map function turns it into a typed result.
type Match struct {
	Node *sitter.Node
	Text string
	Loc  Location
}

// Query is a named, typed query. NodeTypes lists the tree-sitter grammar
// node type names this query fires on; Map converts each raw match into a
// typed result, returning ok=false to skip malformed matches (Run drops
// them without reporting them, never a hard failure).
type Query[T any] struct {
	Name      string
	NodeTypes []string
	Map       func(src []byte, m Match) (T, bool)
}

// Run walks tree once and returns every result q.Map produced.
func Run[T any](tree *parserpool.SyntaxTree, q Query[T]) []T {
	types := make(map[string]struct{}, len(q.NodeTypes))
	for _, t := range q.NodeTypes {
		types[t] = struct{}{}
	}

	var out []T
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if _, ok := types[n.Type()]; ok {
			m := Match{Node: n, Text: n.Content(tree.Source), Loc: locationOf(n)}
			if v, ok := q.Map(tree.Source, m); ok {
				out = append(out, v)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.Tree.RootNode())
	return out
}

// RunAll is like Run but runs every query in qs against the tree in a
// single pass, keyed by query name, for callers that need many query kinds
// at once (the extractor) and want to avoid re-walking the tree per query.
func RunAll(tree *parserpool.SyntaxTree, qs []RawQuery) map[string][]Match {
	byType := make(map[string][]string) // node type -> query names firing on it
	for _, q := range qs {
		for _, t := range q.NodeTypes {
			byType[t] = append(byType[t], q.Name)
		}
	}

	out := make(map[string][]Match, len(qs))
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if names, ok := byType[n.Type()]; ok {
			m := Match{Node: n, Text: n.Content(tree.Source), Loc: locationOf(n)}
			for _, name := range names {
				out[name] = append(out[name], m)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.Tree.RootNode())
	return out
}

// identifierLeafTypes are the grammar node types a heritage clause's base
// class / interface name can bottom out at, across go-tree-sitter's
// typescript/javascript/java/python grammars.
var identifierLeafTypes = map[string]bool{"identifier": true, "type_identifier": true}

// collectLeaves walks every descendant of n and returns the source text of
// each one whose type is in types, in document order. Used by heritage
// queries to pull base-class/interface names out of a clause node without
// needing that grammar's exact nesting depth.
func collectLeaves(src []byte, n *sitter.Node, types map[string]bool) []string {
	if n == nil {
		return nil
	}
	var out []string
	var walk func(*sitter.Node)
	walk = func(x *sitter.Node) {
		if x == nil {
			return
		}
		if types[x.Type()] {
			out = append(out, x.Content(src))
		}
		for i := 0; i < int(x.ChildCount()); i++ {
			walk(x.Child(i))
		}
	}
	walk(n)
	return out
}

// RawQuery is the node-type-only shape used by RunAll, when a caller just
// wants grouped raw matches instead of per-query typed results.
type RawQuery struct {
	Name      string
	NodeTypes []string
}

// declNodeTypes lists every grammar node type a ClassDecls/InterfaceDecls/
// FunctionDecls/MethodDecls/VariableDecls query in this catalog fires on,
// across every language. referenceContext uses it to recognize a decl's own
// name token so the extractor doesn't mistake it for a reference.
var declNodeTypes = map[string]bool{
	"type_spec":             true, // go
	"function_declaration":  true, // go, typescript, javascript
	"method_declaration":    true, // java
	"class_declaration":     true, // typescript, javascript, java
	"interface_declaration": true, // typescript, java
	"method_definition":     true, // typescript, javascript
	"variable_declarator":   true, // typescript, javascript
	"class_definition":      true, // python
	"function_definition":   true, // python
	"assignment":            true, // python
}

// referenceContext classifies an identifier node by its immediate parent:
// the name token of its own declaration ("declaration"), the callee of a
// call expression ("call"), or a plain use ("identifier"). Only direct
// callee identifiers are recognized as calls (`foo()`), not the trailing
// member of a qualified call (`a.b()` still reports "identifier" for `b`)
// since the grammars don't give a uniform field name for that case; Java
// is the exception, where a method_invocation's name field makes `b`
// report "call".
func referenceContext(n *sitter.Node) string {
	parent := n.Parent()
	if parent == nil {
		return "identifier"
	}
	if declNodeTypes[parent.Type()] {
		if parent.ChildByFieldName("name") == n || parent.ChildByFieldName("left") == n {
			return "declaration"
		}
	}
	switch parent.Type() {
	case "call_expression", "call":
		if parent.ChildByFieldName("function") == n {
			return "call"
		}
	case "method_invocation":
		if parent.ChildByFieldName("name") == n {
			return "call"
		}
	}
	return "identifier"
}

// SortedKeys returns m's keys sorted, useful for deterministic iteration
// over RunAll's result map in callers and tests.
func SortedKeys(m map[string][]Match) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
