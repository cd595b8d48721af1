package querycatalog

import sitter "github.com/smacker/go-tree-sitter"

// TypeScriptQueries covers both .ts and .tsx; the tsx grammar is a
// superset of the ts grammar for every node type used below.
var TypeScriptQueries = struct {
	ImportSources    Query[ImportSource]
	NamedImports     Query[NamedImport]
	DefaultImports   Query[DefaultImport]
	TypeImports      Query[TypeImport]
	NamespaceImports Query[NamespaceImport]
	Exports          Query[Export]
	ClassDecls       Query[Decl]
	InterfaceDecls   Query[Decl]
	FunctionDecls    Query[Decl]
	MethodDecls      Query[Decl]
	VariableDecls    Query[Decl]
	References       Query[Reference]
	Heritage         Query[Heritage]
}{
	ImportSources: Query[ImportSource]{
		Name:      "import-sources",
		NodeTypes: []string{"import_statement"},
		Map: func(src []byte, m Match) (ImportSource, bool) {
			source, ok := jsImportSource(src, m.Node)
			if !ok {
				return ImportSource{}, false
			}
			rel := isRelative(source)
			kind := "package"
			if rel {
				kind = "local"
			}
			return ImportSource{Loc: m.Loc, Source: source, IsRelative: rel, Kind: kind}, true
		},
	},
	NamedImports: Query[NamedImport]{
		Name:      "named-imports",
		NodeTypes: []string{"import_specifier"},
		Map: func(src []byte, m Match) (NamedImport, bool) {
			stmt := ancestorOfType(m.Node, "import_statement")
			source, _ := jsImportSource(src, stmt)
			nameNode := m.Node.ChildByFieldName("name")
			aliasNode := m.Node.ChildByFieldName("alias")
			if nameNode == nil {
				return NamedImport{}, false
			}
			alias := ""
			bound := nameNode.Content(src)
			if aliasNode != nil {
				alias = aliasNode.Content(src)
				bound = alias
			}
			return NamedImport{Loc: m.Loc, Name: bound, OriginalName: nameNode.Content(src), Alias: alias, Source: source}, true
		},
	},
	DefaultImports: Query[DefaultImport]{
		Name:      "default-imports",
		NodeTypes: []string{"import_clause"},
		Map: func(src []byte, m Match) (DefaultImport, bool) {
			ident := firstChildOfType(m.Node, "identifier")
			if ident == nil {
				return DefaultImport{}, false
			}
			stmt := ancestorOfType(m.Node, "import_statement")
			source, _ := jsImportSource(src, stmt)
			return DefaultImport{Loc: m.Loc, Name: ident.Content(src), Source: source}, true
		},
	},
	TypeImports: Query[TypeImport]{
		Name:      "type-imports",
		NodeTypes: []string{"import_statement"},
		Map: func(src []byte, m Match) (TypeImport, bool) {
			if firstChildOfType(m.Node, "type") == nil {
				return TypeImport{}, false
			}
			source, ok := jsImportSource(src, m.Node)
			if !ok {
				return TypeImport{}, false
			}
			return TypeImport{Loc: m.Loc, TypeName: source, Source: source, ImportKind: "named"}, true
		},
	},
	NamespaceImports: Query[NamespaceImport]{
		Name:      "namespace-imports",
		NodeTypes: []string{"namespace_import"},
		Map: func(src []byte, m Match) (NamespaceImport, bool) {
			ident := firstChildOfType(m.Node, "identifier")
			if ident == nil {
				return NamespaceImport{}, false
			}
			stmt := ancestorOfType(m.Node, "import_statement")
			source, _ := jsImportSource(src, stmt)
			return NamespaceImport{Loc: m.Loc, Alias: ident.Content(src), Source: source}, true
		},
	},
	Exports: Query[Export]{
		Name:      "exports",
		NodeTypes: []string{"export_statement"},
		Map: func(src []byte, m Match) (Export, bool) {
			sourceNode := m.Node.ChildByFieldName("source")
			if sourceNode != nil {
				return Export{Loc: m.Loc, Kind: "re-export", Source: unquote(sourceNode.Content(src))}, true
			}
			if isDefault := firstChildOfType(m.Node, "default") != nil; isDefault {
				return Export{Loc: m.Loc, Name: "default", Kind: "default"}, true
			}
			decl := m.Node.ChildByFieldName("declaration")
			if decl != nil {
				if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
					return Export{Loc: m.Loc, Name: nameNode.Content(src), Kind: "named"}, true
				}
			}
			return Export{}, false
		},
	},
	ClassDecls: Query[Decl]{
		Name:      "class-decls",
		NodeTypes: []string{"class_declaration"},
		Map:       namedDecl,
	},
	InterfaceDecls: Query[Decl]{
		Name:      "interface-decls",
		NodeTypes: []string{"interface_declaration"},
		Map:       namedDecl,
	},
	FunctionDecls: Query[Decl]{
		Name:      "function-decls",
		NodeTypes: []string{"function_declaration"},
		Map:       namedDecl,
	},
	MethodDecls: Query[Decl]{
		Name:      "method-decls",
		NodeTypes: []string{"method_definition"},
		Map:       namedDecl,
	},
	VariableDecls: Query[Decl]{
		Name:      "variable-decls",
		NodeTypes: []string{"variable_declarator"},
		Map:       namedDecl,
	},
	References: Query[Reference]{
		Name:      "references",
		NodeTypes: []string{"identifier"},
		Map: func(src []byte, m Match) (Reference, bool) {
			return Reference{Loc: m.Loc, Name: m.Text, Context: referenceContext(m.Node)}, true
		},
	},
	Heritage: Query[Heritage]{
		Name:      "class-heritage",
		NodeTypes: []string{"class_declaration"},
		Map: func(src []byte, m Match) (Heritage, bool) {
			nameNode := m.Node.ChildByFieldName("name")
			if nameNode == nil {
				return Heritage{}, false
			}
			clause := firstChildOfType(m.Node, "class_heritage")
			if clause == nil {
				return Heritage{}, false
			}
			h := Heritage{Loc: m.Loc, Name: nameNode.Content(src)}
			if ext := firstChildOfType(clause, "extends_clause"); ext != nil {
				h.Extends = collectLeaves(src, ext, identifierLeafTypes)
			}
			if impl := firstChildOfType(clause, "implements_clause"); impl != nil {
				h.Implements = collectLeaves(src, impl, identifierLeafTypes)
			}
			if len(h.Extends) == 0 && len(h.Implements) == 0 {
				return Heritage{}, false
			}
			return h, true
		},
	},
}

func namedDecl(src []byte, m Match) (Decl, bool) {
	nameNode := m.Node.ChildByFieldName("name")
	if nameNode == nil {
		return Decl{}, false
	}
	return Decl{Loc: m.Loc, Name: nameNode.Content(src)}, true
}

func jsImportSource(src []byte, stmt *sitter.Node) (string, bool) {
	if stmt == nil {
		return "", false
	}
	sourceNode := stmt.ChildByFieldName("source")
	if sourceNode == nil {
		return "", false
	}
	return unquote(sourceNode.Content(src)), true
}

func isRelative(source string) bool {
	return len(source) > 0 && (source[0] == '.' || source[0] == '/')
}

func ancestorOfType(n *sitter.Node, typ string) *sitter.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Type() == typ {
			return cur
		}
	}
	return nil
}
