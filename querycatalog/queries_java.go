package querycatalog

// JavaQueries covers the single-file declaration surface the extractor
// needs: the grammar's package/import declarations and class-ish
// declarations. Grounded on the tree-sitter-java grammar's standard node
// and field names, the same ones viant/linager's Java analyzer walks.
var JavaQueries = struct {
	ImportSources  Query[ImportSource]
	ClassDecls     Query[Decl]
	InterfaceDecls Query[Decl]
	MethodDecls    Query[Decl]
	VariableDecls  Query[Decl]
	References     Query[Reference]
	Heritage       Query[Heritage]
}{
	ImportSources: Query[ImportSource]{
		Name:      "import-sources",
		NodeTypes: []string{"import_declaration"},
		Map: func(src []byte, m Match) (ImportSource, bool) {
			scoped := firstChildOfType(m.Node, "scoped_identifier")
			if scoped == nil {
				scoped = firstChildOfType(m.Node, "identifier")
			}
			if scoped == nil {
				return ImportSource{}, false
			}
			return ImportSource{Loc: m.Loc, Source: scoped.Content(src), IsRelative: false, Kind: "package"}, true
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
	MethodDecls: Query[Decl]{
		Name:      "method-decls",
		NodeTypes: []string{"method_declaration"},
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
			h := Heritage{Loc: m.Loc, Name: nameNode.Content(src)}
			if sup := m.Node.ChildByFieldName("superclass"); sup != nil {
				h.Extends = collectLeaves(src, sup, identifierLeafTypes)
			}
			if ifaces := m.Node.ChildByFieldName("interfaces"); ifaces != nil {
				h.Implements = collectLeaves(src, ifaces, identifierLeafTypes)
			}
			if len(h.Extends) == 0 && len(h.Implements) == 0 {
				return Heritage{}, false
			}
			return h, true
		},
	},
}
