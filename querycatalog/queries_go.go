package querycatalog

import sitter "github.com/smacker/go-tree-sitter"

// GoQueries is the fixed query set the extractor runs against a Go syntax
// tree. Go has no re-export or type-only-import concept at the grammar
// level, so TypeImports/NamespaceImports are always empty for this
// language.
var GoQueries = struct {
	ImportSources Query[ImportSource]
	Exports       Query[Export]
	ClassDecls    Query[Decl] // struct type_spec, stands in for "class"
	FunctionDecls Query[Decl]
	MethodDecls   Query[Decl]
	VariableDecls Query[Decl]
	References    Query[Reference]
}{
	ImportSources: Query[ImportSource]{
		Name:      "import-sources",
		NodeTypes: []string{"import_spec"},
		Map: func(src []byte, m Match) (ImportSource, bool) {
			pathNode := m.Node.ChildByFieldName("path")
			if pathNode == nil {
				return ImportSource{}, false
			}
			path := unquote(pathNode.Content(src))
			return ImportSource{Loc: m.Loc, Source: path, IsRelative: false, Kind: "package"}, true
		},
	},
	ClassDecls: Query[Decl]{
		Name:      "class-decls",
		NodeTypes: []string{"type_spec"},
		Map: func(src []byte, m Match) (Decl, bool) {
			nameNode := m.Node.ChildByFieldName("name")
			if nameNode == nil {
				return Decl{}, false
			}
			return Decl{Loc: m.Loc, Name: nameNode.Content(src)}, true
		},
	},
	FunctionDecls: Query[Decl]{
		Name:      "function-decls",
		NodeTypes: []string{"function_declaration"},
		Map: func(src []byte, m Match) (Decl, bool) {
			nameNode := m.Node.ChildByFieldName("name")
			if nameNode == nil {
				return Decl{}, false
			}
			return Decl{Loc: m.Loc, Name: nameNode.Content(src)}, true
		},
	},
	MethodDecls: Query[Decl]{
		Name:      "method-decls",
		NodeTypes: []string{"method_declaration"},
		Map: func(src []byte, m Match) (Decl, bool) {
			nameNode := m.Node.ChildByFieldName("name")
			if nameNode == nil {
				return Decl{}, false
			}
			return Decl{Loc: m.Loc, Name: nameNode.Content(src)}, true
		},
	},
	VariableDecls: Query[Decl]{
		Name:      "variable-decls",
		NodeTypes: []string{"var_spec", "const_spec", "short_var_declaration"},
		Map: func(src []byte, m Match) (Decl, bool) {
			nameNode := m.Node.ChildByFieldName("name")
			if nameNode == nil {
				// short_var_declaration names its left-hand side "left", a
				// list; take the first identifier child as a best effort.
				nameNode = firstChildOfType(m.Node, "identifier")
			}
			if nameNode == nil {
				return Decl{}, false
			}
			return Decl{Loc: m.Loc, Name: nameNode.Content(src)}, true
		},
	},
	Exports: Query[Export]{
		Name:      "exports",
		NodeTypes: []string{"type_spec", "function_declaration"},
		Map: func(src []byte, m Match) (Export, bool) {
			nameNode := m.Node.ChildByFieldName("name")
			if nameNode == nil {
				return Export{}, false
			}
			name := nameNode.Content(src)
			if !isExportedGoName(name) {
				return Export{}, false
			}
			return Export{Loc: m.Loc, Name: name, Kind: "named"}, true
		},
	},
	References: Query[Reference]{
		Name:      "references",
		NodeTypes: []string{"identifier"},
		Map: func(src []byte, m Match) (Reference, bool) {
			return Reference{Loc: m.Loc, Name: m.Text, Context: referenceContext(m.Node)}, true
		},
	},
}

// Go has no classical inheritance (interface satisfaction is structural,
// not declared at the type site), so GoQueries has no Heritage query.

func isExportedGoName(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

func firstChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}
