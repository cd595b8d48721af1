package querycatalog

// Markdown query result types. Markdown has no tree-sitter grammar in this
// toolchain, so these are produced by providers/markdown walking a goldmark
// AST directly rather than by Run/RunAll — the result types are still part
// of the catalog because their shape is what the extractor depends on,
// regardless of which parser produced them.

// MDHeading is one heading, # through ######.
type MDHeading struct {
	Loc   Location
	Level int
	Text  string
}

// MDLink is one inline or reference-style link.
type MDLink struct {
	Loc         Location
	Text        string
	Destination string
}

// MDCodeFence is one fenced code block, with its declared language tag.
type MDCodeFence struct {
	Loc      Location
	Language string
	Content  string
}

// MDFrontMatterKey is one top-level key from a YAML front-matter block.
type MDFrontMatterKey struct {
	Loc   Location
	Key   string
	Value string
}
