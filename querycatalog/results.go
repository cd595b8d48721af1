package querycatalog

// ImportSource is the result of the import-sources query: one module
// specifier referenced by an import/require statement.
type ImportSource struct {
	Loc        Location
	Source     string
	IsRelative bool
	Kind       string // "package" | "local"
}

// NamedImport is one `{ name as alias }`-style binding imported from Source.
type NamedImport struct {
	Loc          Location
	Name         string
	OriginalName string
	Alias        string
	Source       string
}

// DefaultImport is a default-export binding imported from Source.
type DefaultImport struct {
	Loc    Location
	Name   string
	Source string
}

// TypeImport is a type-only import binding.
type TypeImport struct {
	Loc        Location
	TypeName   string
	Source     string
	Alias      string
	ImportKind string // "named" | "default" | "namespace"
}

// NamespaceImport is a `import * as alias from "source"`-style binding.
type NamespaceImport struct {
	Loc    Location
	Alias  string
	Source string
}

// Export is one exported binding.
type Export struct {
	Loc    Location
	Name   string
	Kind   string // "named" | "default" | "re-export"
	Source string // non-empty for re-exports
}

// Decl is a declaration of a class, interface, function, method, or
// variable, shared across every declaration-kind query since their shape
// (name, location, raw text) is identical; the query name itself
// distinguishes what was matched.
type Decl struct {
	Loc  Location
	Name string
}

// Reference is a use of an identifier whose declaration isn't established by
// this query alone — the extractor cross-references it against known nodes
// or else raises an UnknownSymbol. Context is "call" when the identifier
// occupies the callee position of a call expression, "declaration" when it
// is actually a decl's own name token (the extractor drops these), and
// "identifier" for every other bare reference.
type Reference struct {
	Loc     Location
	Name    string
	Context string
}

// Heritage is a class or interface's superclass/implemented-interface list,
// where the grammar exposes one. Extends holds superclass names (Java,
// Python, TypeScript/JavaScript class extends); Implements holds interface
// names (Java implements, TypeScript implements).
type Heritage struct {
	Loc        Location
	Name       string
	Extends    []string
	Implements []string
}
