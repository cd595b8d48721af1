// Package extractor turns one file's source bytes into the typed records
// the rest of the pipeline stores and reasons over: a file node,
// declaration nodes in source order, classified import records, and
// unresolved identifier references. It never touches the graph store —
// resolving an import to a known-or-synthetic node, and a reference to a
// declared-or-unknown symbol, is the orchestrator's job, since only the
// orchestrator holds a store handle spanning the whole batch.
package extractor

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/internal/apperrors"
	"github.com/oxhq/codegraph/parserpool"
	"github.com/oxhq/codegraph/providers"
	"github.com/oxhq/codegraph/providers/markdown"
	"github.com/oxhq/codegraph/querycatalog"
)

// Config tunes extraction limits.
type Config struct {
	// MaxFileBytes skips extraction with OversizeFile for anything larger.
	MaxFileBytes int64
	// Project names the repository root node identifiers are built under.
	Project string
}

// Extractor drives the parser pool and query catalog for every registered
// language.
type Extractor struct {
	pool      *parserpool.Pool
	providers *providers.Registry
	cfg       Config
}

// New returns an Extractor backed by pool and registry.
func New(pool *parserpool.Pool, registry *providers.Registry, cfg Config) *Extractor {
	return &Extractor{pool: pool, providers: registry, cfg: cfg}
}

// ImportEdge is one classified import, ready for the orchestrator to
// resolve against the store: to a known file node (local import already
// extracted), or else a synthetic external/unknown node it creates.
type ImportEdge struct {
	EdgeType   string // "imports_file" | "imports_package" | "imports_builtin"
	Kind       ImportKind
	Source     string // raw import source text, as written
	TargetName string // canonical package/builtin name, or the raw local path
	Loc        domain.Location
}

// ImportedBinding is one named/default/type/namespace binding pulled in by
// an import, informational: the orchestrator uses it to recognize that a
// later reference to this name is an already-accounted-for import alias,
// not a symbol the resolver needs to chase down.
type ImportedBinding struct {
	LocalName string
	Source    string
	Loc       domain.Location
}

// ExportRecord is one exported binding, used by the orchestrator to
// materialize re_exports edges for re-exports and to mark a decl node
// externally visible for other files' import resolution. ImportKind and
// TargetName are only populated when Kind is "re-export": they classify
// Source exactly as an ImportEdge would, so the orchestrator can resolve a
// re-export's target with the same resolveImportTarget logic it uses for
// ordinary imports.
type ExportRecord struct {
	Name       string
	Kind       string // "named" | "default" | "re-export"
	Source     string // non-empty for re-exports
	ImportKind ImportKind
	TargetName string
	Loc        domain.Location
}

// UnresolvedReference is a bare identifier use the extractor can't itself
// tie to a declaration; the orchestrator cross-references it against the
// file's own decls and the store before deciding it's genuinely unknown.
type UnresolvedReference struct {
	Name string
	Loc  domain.Location
}

// LocalReference is an identifier use that resolves to a declaration in the
// same file: the orchestrator turns it into a "calls" or "references" edge
// from the enclosing declaration (or the file, if the reference sits at
// top level) to the matching decl.
type LocalReference struct {
	Name    string
	Context string // "call" | "identifier"
	Loc     domain.Location
}

// HeritageEdge is one superclass or implemented-interface relationship
// captured from a class/interface declaration's heritage clause.
type HeritageEdge struct {
	ClassName string
	BaseName  string
	EdgeType  string // "extends" | "implements"
	Loc       domain.Location
}

// Result is everything one file's extraction produced.
type Result struct {
	File            domain.Node
	Decls           []domain.Node
	Imports         []ImportEdge
	Bindings        []ImportedBinding
	Exports         []ExportRecord
	References      []UnresolvedReference
	LocalReferences []LocalReference
	Heritage        []HeritageEdge
	Warnings        []string
}

// Extract runs the full pipeline for one file: language lookup, oversize
// check, parse, query execution, import classification. ParseFailure and
// UnsupportedLanguage propagate unchanged; a match a query's Map rejects is
// dropped without a warning, never a hard failure. Warnings records only
// declarations skipped for an invalid name.
func (e *Extractor) Extract(ctx context.Context, filePath string, src []byte) (Result, error) {
	if e.cfg.MaxFileBytes > 0 && int64(len(src)) > e.cfg.MaxFileBytes {
		return Result{}, &apperrors.FileError{FilePath: filePath, Code: apperrors.CodeOversizeFile, Cause: apperrors.ErrOversizeFile}
	}

	ext := path.Ext(filePath)
	provider, ok := e.providers.GetForExtension(ext)
	if !ok {
		return Result{}, &apperrors.FileError{FilePath: filePath, Code: apperrors.CodeUnsupportedLanguage, Cause: apperrors.ErrUnsupportedLanguage}
	}
	language := provider.Language()

	if language == "markdown" {
		return e.extractMarkdown(filePath, src), nil
	}

	qs, ok := querySetFor(language)
	if !ok {
		return Result{}, &apperrors.FileError{FilePath: filePath, Code: apperrors.CodeUnsupportedLanguage, Cause: apperrors.ErrUnsupportedLanguage}
	}

	tree, err := e.pool.Parse(ctx, language, src)
	if err != nil {
		return Result{}, err
	}
	defer tree.Close()

	res := Result{
		File: domain.Node{
			Identifier: domain.BuildIdentifier(e.cfg.Project, filePath, domain.KindFile, path.Base(filePath)),
			Kind:       domain.KindFile,
			Name:       path.Base(filePath),
			SourceFile: &filePath,
			Language:   language,
		},
	}

	appendDecls(&res, e.cfg.Project, filePath, language, domain.KindClass, querycatalog.Run(tree, qs.ClassDecls))
	appendDecls(&res, e.cfg.Project, filePath, language, domain.KindInterface, querycatalog.Run(tree, qs.InterfaceDecls))
	appendDecls(&res, e.cfg.Project, filePath, language, domain.KindFunction, querycatalog.Run(tree, qs.FunctionDecls))
	appendDecls(&res, e.cfg.Project, filePath, language, domain.KindMethod, querycatalog.Run(tree, qs.MethodDecls))
	appendDecls(&res, e.cfg.Project, filePath, language, domain.KindVariable, querycatalog.Run(tree, qs.VariableDecls))
	sort.SliceStable(res.Decls, func(i, j int) bool {
		return res.Decls[i].Location.StartOffset < res.Decls[j].Location.StartOffset
	})

	for _, imp := range querycatalog.Run(tree, qs.ImportSources) {
		kind, name := classifyImport(language, imp.Source)
		res.Imports = append(res.Imports, ImportEdge{
			EdgeType:   edgeTypeForImport(kind),
			Kind:       kind,
			Source:     imp.Source,
			TargetName: name,
			Loc:        convertLoc(imp.Loc),
		})
	}

	for _, b := range querycatalog.Run(tree, qs.NamedImports) {
		res.Bindings = append(res.Bindings, ImportedBinding{LocalName: b.Name, Source: b.Source, Loc: convertLoc(b.Loc)})
	}
	for _, b := range querycatalog.Run(tree, qs.DefaultImports) {
		res.Bindings = append(res.Bindings, ImportedBinding{LocalName: b.Name, Source: b.Source, Loc: convertLoc(b.Loc)})
	}
	for _, b := range querycatalog.Run(tree, qs.TypeImports) {
		res.Bindings = append(res.Bindings, ImportedBinding{LocalName: b.TypeName, Source: b.Source, Loc: convertLoc(b.Loc)})
	}
	for _, b := range querycatalog.Run(tree, qs.NamespaceImports) {
		res.Bindings = append(res.Bindings, ImportedBinding{LocalName: b.Alias, Source: b.Source, Loc: convertLoc(b.Loc)})
	}

	for _, exp := range querycatalog.Run(tree, qs.Exports) {
		rec := ExportRecord{Name: exp.Name, Kind: exp.Kind, Source: exp.Source, Loc: convertLoc(exp.Loc)}
		if exp.Kind == "re-export" {
			rec.ImportKind, rec.TargetName = classifyImport(language, exp.Source)
		}
		res.Exports = append(res.Exports, rec)
	}

	for _, h := range querycatalog.Run(tree, qs.Heritage) {
		for _, base := range h.Extends {
			res.Heritage = append(res.Heritage, HeritageEdge{ClassName: h.Name, BaseName: base, EdgeType: "extends", Loc: convertLoc(h.Loc)})
		}
		for _, base := range h.Implements {
			res.Heritage = append(res.Heritage, HeritageEdge{ClassName: h.Name, BaseName: base, EdgeType: "implements", Loc: convertLoc(h.Loc)})
		}
	}

	declared := make(map[string]bool, len(res.Decls))
	for _, d := range res.Decls {
		declared[d.Name] = true
	}
	imported := make(map[string]bool, len(res.Bindings))
	for _, b := range res.Bindings {
		imported[b.LocalName] = true
	}
	for _, ref := range querycatalog.Run(tree, qs.References) {
		switch {
		case ref.Context == "declaration":
			// a decl's own name token, not a use of it
		case declared[ref.Name]:
			res.LocalReferences = append(res.LocalReferences, LocalReference{Name: ref.Name, Context: ref.Context, Loc: convertLoc(ref.Loc)})
		case imported[ref.Name]:
			// already accounted for by the import that bound it
		default:
			res.References = append(res.References, UnresolvedReference{Name: ref.Name, Loc: convertLoc(ref.Loc)})
		}
	}

	return res, nil
}

func appendDecls(res *Result, project, filePath, language string, kind domain.NodeKind, decls []querycatalog.Decl) {
	for _, d := range decls {
		if !domain.ValidName(d.Name) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: skipped %s decl with invalid name %q", filePath, kind, d.Name))
			continue
		}
		res.Decls = append(res.Decls, domain.Node{
			Identifier: domain.BuildIdentifier(project, filePath, kind, d.Name),
			Kind:       kind,
			Name:       d.Name,
			SourceFile: &filePath,
			Language:   language,
			Location:   convertLoc(d.Loc),
		})
	}
}

func edgeTypeForImport(kind ImportKind) string {
	switch kind {
	case ImportLocal:
		return "imports_file"
	case ImportBuiltin:
		return "imports_builtin"
	default:
		return "imports_package"
	}
}

func convertLoc(l querycatalog.Location) domain.Location {
	return domain.Location{
		Line:        l.Line,
		Column:      l.Column,
		StartOffset: l.StartOffset,
		EndOffset:   l.EndOffset,
		EndLine:     l.EndLine,
		EndColumn:   l.EndColumn,
	}
}

// extractMarkdown adapts providers/markdown's goldmark-based walk into the
// same Result shape: one heading node per heading, one import-style edge
// per local link (a relative link to another file in the repository is
// treated as a documentation dependency), front-matter keys folded into
// the file node's metadata.
func (e *Extractor) extractMarkdown(filePath string, src []byte) Result {
	q := markdown.Run(src)

	file := domain.Node{
		Identifier: domain.BuildIdentifier(e.cfg.Project, filePath, domain.KindFile, path.Base(filePath)),
		Kind:       domain.KindFile,
		Name:       path.Base(filePath),
		SourceFile: &filePath,
		Language:   "markdown",
	}
	if len(q.FrontMatter) > 0 {
		file.Metadata = make(domain.Metadata, len(q.FrontMatter))
		for _, fm := range q.FrontMatter {
			file.Metadata[fm.Key] = fm.Value
		}
	}

	res := Result{File: file}
	for _, h := range q.Headings {
		name := h.Text
		if !domain.ValidName(name) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: skipped heading with invalid name %q", filePath, name))
			continue
		}
		res.Decls = append(res.Decls, domain.Node{
			Identifier: domain.BuildIdentifier(e.cfg.Project, filePath, domain.KindHeading, name),
			Kind:       domain.KindHeading,
			Name:       name,
			SourceFile: &filePath,
			Language:   "markdown",
			Metadata:   domain.Metadata{"level": h.Level},
		})
	}
	for _, l := range q.Links {
		if !isRelative(l.Destination) {
			continue
		}
		res.Imports = append(res.Imports, ImportEdge{
			EdgeType:   "imports_file",
			Kind:       ImportLocal,
			Source:     l.Destination,
			TargetName: l.Destination,
		})
	}
	return res
}
