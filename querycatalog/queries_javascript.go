package querycatalog

// JavaScriptQueries covers .js, .jsx, .mjs, .cjs. The JS grammar shares
// every node type used below with TypeScript except type-only imports and
// interface declarations, which don't exist in JS.
var JavaScriptQueries = struct {
	ImportSources    Query[ImportSource]
	NamedImports     Query[NamedImport]
	DefaultImports   Query[DefaultImport]
	NamespaceImports Query[NamespaceImport]
	Exports          Query[Export]
	ClassDecls       Query[Decl]
	FunctionDecls    Query[Decl]
	MethodDecls      Query[Decl]
	VariableDecls    Query[Decl]
	References       Query[Reference]
	Heritage         Query[Heritage]
}{
	ImportSources:    TypeScriptQueries.ImportSources,
	NamedImports:     TypeScriptQueries.NamedImports,
	DefaultImports:   TypeScriptQueries.DefaultImports,
	NamespaceImports: TypeScriptQueries.NamespaceImports,
	Exports:          TypeScriptQueries.Exports,
	ClassDecls:       TypeScriptQueries.ClassDecls,
	FunctionDecls:    TypeScriptQueries.FunctionDecls,
	MethodDecls:      TypeScriptQueries.MethodDecls,
	VariableDecls:    TypeScriptQueries.VariableDecls,
	References:       TypeScriptQueries.References,
	// JS classes can extend (no interfaces), and the grammar's
	// class_heritage/extends_clause node types are identical to
	// TypeScript's, so the same query applies unmodified.
	Heritage: TypeScriptQueries.Heritage,
}
