package extractor

import "github.com/oxhq/codegraph/querycatalog"

// QuerySet is the full, language-neutral shape of the query catalog. A
// language fills in only the fields its grammar supports; an unfilled
// Query[T] has a nil NodeTypes slice, and querycatalog.Run against it
// simply returns no matches, so the extractor can run every field
// unconditionally instead of branching per language.
type QuerySet struct {
	ImportSources    querycatalog.Query[querycatalog.ImportSource]
	NamedImports     querycatalog.Query[querycatalog.NamedImport]
	DefaultImports   querycatalog.Query[querycatalog.DefaultImport]
	TypeImports      querycatalog.Query[querycatalog.TypeImport]
	NamespaceImports querycatalog.Query[querycatalog.NamespaceImport]
	Exports          querycatalog.Query[querycatalog.Export]
	ClassDecls       querycatalog.Query[querycatalog.Decl]
	InterfaceDecls   querycatalog.Query[querycatalog.Decl]
	FunctionDecls    querycatalog.Query[querycatalog.Decl]
	MethodDecls      querycatalog.Query[querycatalog.Decl]
	VariableDecls    querycatalog.Query[querycatalog.Decl]
	References       querycatalog.Query[querycatalog.Reference]
	Heritage         querycatalog.Query[querycatalog.Heritage]
}

// querySetFor returns the fixed query set for a tree-sitter-backed
// language. Markdown has its own extraction path (extractMarkdown) and
// never reaches this lookup. Go has no Heritage query (no classical
// inheritance), so its QuerySet.Heritage is left at its zero value.
func querySetFor(language string) (QuerySet, bool) {
	switch language {
	case "go":
		q := querycatalog.GoQueries
		return QuerySet{
			ImportSources: q.ImportSources,
			Exports:       q.Exports,
			ClassDecls:    q.ClassDecls,
			FunctionDecls: q.FunctionDecls,
			MethodDecls:   q.MethodDecls,
			VariableDecls: q.VariableDecls,
			References:    q.References,
		}, true
	case "typescript":
		q := querycatalog.TypeScriptQueries
		return QuerySet{
			ImportSources:    q.ImportSources,
			NamedImports:     q.NamedImports,
			DefaultImports:   q.DefaultImports,
			TypeImports:      q.TypeImports,
			NamespaceImports: q.NamespaceImports,
			Exports:          q.Exports,
			ClassDecls:       q.ClassDecls,
			InterfaceDecls:   q.InterfaceDecls,
			FunctionDecls:    q.FunctionDecls,
			MethodDecls:      q.MethodDecls,
			VariableDecls:    q.VariableDecls,
			References:       q.References,
			Heritage:         q.Heritage,
		}, true
	case "javascript":
		q := querycatalog.JavaScriptQueries
		return QuerySet{
			ImportSources:    q.ImportSources,
			NamedImports:     q.NamedImports,
			DefaultImports:   q.DefaultImports,
			NamespaceImports: q.NamespaceImports,
			Exports:          q.Exports,
			ClassDecls:       q.ClassDecls,
			FunctionDecls:    q.FunctionDecls,
			MethodDecls:      q.MethodDecls,
			VariableDecls:    q.VariableDecls,
			References:       q.References,
			Heritage:         q.Heritage,
		}, true
	case "python":
		q := querycatalog.PythonQueries
		return QuerySet{
			ImportSources: q.ImportSources,
			NamedImports:  q.NamedImports,
			ClassDecls:    q.ClassDecls,
			FunctionDecls: q.FunctionDecls,
			MethodDecls:   q.MethodDecls,
			VariableDecls: q.VariableDecls,
			References:    q.References,
			Heritage:      q.Heritage,
		}, true
	case "java":
		q := querycatalog.JavaQueries
		return QuerySet{
			ImportSources:  q.ImportSources,
			ClassDecls:     q.ClassDecls,
			InterfaceDecls: q.InterfaceDecls,
			MethodDecls:    q.MethodDecls,
			VariableDecls:  q.VariableDecls,
			References:     q.References,
			Heritage:       q.Heritage,
		}, true
	default:
		return QuerySet{}, false
	}
}
