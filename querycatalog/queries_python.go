package querycatalog

// PythonQueries has no "interface" or re-export concept; class/function
// declarations and import statements cover the grammar's declaration
// surface.
var PythonQueries = struct {
	ImportSources Query[ImportSource]
	NamedImports  Query[NamedImport]
	ClassDecls    Query[Decl]
	FunctionDecls Query[Decl]
	MethodDecls   Query[Decl]
	VariableDecls Query[Decl]
	References    Query[Reference]
	Heritage      Query[Heritage]
}{
	ImportSources: Query[ImportSource]{
		Name:      "import-sources",
		NodeTypes: []string{"import_statement", "import_from_statement"},
		Map: func(src []byte, m Match) (ImportSource, bool) {
			moduleNode := m.Node.ChildByFieldName("module_name")
			if moduleNode == nil {
				moduleNode = firstChildOfType(m.Node, "dotted_name")
			}
			if moduleNode == nil {
				return ImportSource{}, false
			}
			name := moduleNode.Content(src)
			rel := len(name) > 0 && name[0] == '.'
			kind := "package"
			if rel {
				kind = "local"
			}
			return ImportSource{Loc: m.Loc, Source: name, IsRelative: rel, Kind: kind}, true
		},
	},
	NamedImports: Query[NamedImport]{
		Name:      "named-imports",
		NodeTypes: []string{"import_from_statement"},
		Map: func(src []byte, m Match) (NamedImport, bool) {
			moduleNode := m.Node.ChildByFieldName("module_name")
			if moduleNode == nil {
				return NamedImport{}, false
			}
			source := moduleNode.Content(src)
			nameNode := m.Node.ChildByFieldName("name")
			if nameNode == nil {
				return NamedImport{}, false
			}
			return NamedImport{Loc: m.Loc, Name: nameNode.Content(src), OriginalName: nameNode.Content(src), Source: source}, true
		},
	},
	ClassDecls: Query[Decl]{
		Name:      "class-decls",
		NodeTypes: []string{"class_definition"},
		Map:       namedDecl,
	},
	FunctionDecls: Query[Decl]{
		Name:      "function-decls",
		NodeTypes: []string{"function_definition"},
		Map: func(src []byte, m Match) (Decl, bool) {
			if ancestorOfType(m.Node.Parent(), "class_definition") != nil {
				return Decl{}, false // handled by MethodDecls instead
			}
			return namedDecl(src, m)
		},
	},
	MethodDecls: Query[Decl]{
		Name:      "method-decls",
		NodeTypes: []string{"function_definition"},
		Map: func(src []byte, m Match) (Decl, bool) {
			if ancestorOfType(m.Node.Parent(), "class_definition") == nil {
				return Decl{}, false
			}
			return namedDecl(src, m)
		},
	},
	VariableDecls: Query[Decl]{
		Name:      "variable-decls",
		NodeTypes: []string{"assignment"},
		Map: func(src []byte, m Match) (Decl, bool) {
			left := m.Node.ChildByFieldName("left")
			if left == nil || left.Type() != "identifier" {
				return Decl{}, false
			}
			return Decl{Loc: m.Loc, Name: left.Content(src)}, true
		},
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
		NodeTypes: []string{"class_definition"},
		Map: func(src []byte, m Match) (Heritage, bool) {
			nameNode := m.Node.ChildByFieldName("name")
			if nameNode == nil {
				return Heritage{}, false
			}
			bases := m.Node.ChildByFieldName("superclasses")
			if bases == nil {
				return Heritage{}, false
			}
			// Python has no interface keyword; every base listed here
			// (metaclass= keyword arguments included, a minor imprecision)
			// is treated as a superclass.
			names := collectLeaves(src, bases, identifierLeafTypes)
			if len(names) == 0 {
				return Heritage{}, false
			}
			return Heritage{Loc: m.Loc, Name: nameNode.Content(src), Extends: names}, true
		},
	},
}
