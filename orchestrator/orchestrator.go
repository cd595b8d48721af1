// Package orchestrator drives a batch of files through extraction and into
// the graph store: parse+extract each file, upsert its own nodes, resolve
// every import to a known or synthetic node once every file in the batch
// has contributed its own declarations, then replace the file's slice of
// the graph in one transaction. Modeled on the teacher's
// FileProcessor/FileWalker bounded worker pool, generalized from a
// query/transform job to an extract-and-store job.
package orchestrator

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/extractor"
)

// Store is the slice of graphstore.Store the orchestrator needs.
type Store interface {
	UpsertNode(ctx context.Context, n domain.Node) (domain.Node, error)
	FindNodeByIdentifier(ctx context.Context, identifier string) (domain.Node, bool, error)
	ReplaceFile(ctx context.Context, path string, nodes []domain.Node, explicitEdges []domain.Edge) ([]domain.Node, error)
}

// UnknownRegistrar is the slice of resolver.Resolver (or graphstore.Store
// directly) the orchestrator needs to record unresolved references.
type UnknownRegistrar interface {
	RegisterUnknown(ctx context.Context, u domain.UnknownSymbol) (domain.UnknownSymbol, error)
}

// Extractor is the slice of extractor.Extractor the orchestrator drives.
type Extractor interface {
	Extract(ctx context.Context, filePath string, src []byte) (extractor.Result, error)
}

// Orchestrator fans a batch of files out through extraction and into the
// store with bounded parallelism.
type Orchestrator struct {
	extractor Extractor
	store     Store
	unknowns  UnknownRegistrar
	project   string
	workers   int
}

// New returns an Orchestrator. workers <= 0 is treated as 1.
func New(ex Extractor, store Store, unknowns UnknownRegistrar, project string, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{extractor: ex, store: store, unknowns: unknowns, project: project, workers: workers}
}

// FileResult is one file's outcome within a batch.
type FileResult struct {
	Path     string
	Nodes    int
	Edges    int
	Unknowns int
	Warnings []string
	Err      error
}

// BatchResult aggregates a ProcessBatch run.
type BatchResult struct {
	Files     []FileResult
	Succeeded int
	Failed    int
}

// extraction pairs one file's path, source, and extraction outcome, kept
// together across the worker pool boundary.
type extraction struct {
	path   string
	result extractor.Result
	err    error
}

// upserted is one file's own nodes after the node-upsert phase, carried
// into the import-resolution phase.
type upserted struct {
	path   string
	result extractor.Result
	stored []domain.Node
	fileID int64
	err    error
}

// ProcessBatch extracts every file in files (bounded by the orchestrator's
// worker count), upserts every file's own nodes in a first barrier phase so
// that no file's import resolution can race its target file's node upsert,
// then resolves imports and replaces each file's slice of the graph. A
// failure on one file — parse, oversize, or a store error — fills that
// file's FileResult.Err and never aborts its siblings.
func (o *Orchestrator) ProcessBatch(ctx context.Context, files map[string][]byte) BatchResult {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	extractions := o.extractAll(ctx, paths, files)
	upserts := o.upsertAll(ctx, extractions)
	results := o.resolveAndReplaceAll(ctx, upserts)

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	batch := BatchResult{Files: results}
	for _, r := range results {
		if r.Err != nil {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}
	return batch
}

func (o *Orchestrator) extractAll(ctx context.Context, paths []string, files map[string][]byte) []extraction {
	out := make([]extraction, len(paths))
	sem := make(chan struct{}, o.workers)
	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := o.extractor.Extract(ctx, p, files[p])
			out[i] = extraction{path: p, result: res, err: err}
		}(i, p)
	}
	wg.Wait()
	return out
}

// upsertAll writes every successfully extracted file's own nodes (file
// node + decls) to the store, bounded by the worker count. It is the
// barrier between extraction and import resolution: every file's own
// nodes are visible to FindNodeByIdentifier before any file's imports are
// resolved against them.
func (o *Orchestrator) upsertAll(ctx context.Context, extractions []extraction) []upserted {
	out := make([]upserted, len(extractions))
	sem := make(chan struct{}, o.workers)
	var wg sync.WaitGroup
	for i, ex := range extractions {
		wg.Add(1)
		go func(i int, ex extraction) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ex.err != nil {
				out[i] = upserted{path: ex.path, err: ex.err}
				return
			}
			nodes := make([]domain.Node, 0, 1+len(ex.result.Decls))
			nodes = append(nodes, ex.result.File)
			nodes = append(nodes, ex.result.Decls...)

			stored := make([]domain.Node, 0, len(nodes))
			var fileID int64
			for _, n := range nodes {
				saved, err := o.store.UpsertNode(ctx, n)
				if err != nil {
					out[i] = upserted{path: ex.path, err: fmt.Errorf("orchestrator: upsert node %q: %w", n.Identifier, err)}
					return
				}
				stored = append(stored, saved)
				if saved.Identifier == ex.result.File.Identifier {
					fileID = saved.ID
				}
			}
			out[i] = upserted{path: ex.path, result: ex.result, stored: stored, fileID: fileID}
		}(i, ex)
	}
	wg.Wait()
	return out
}

// resolveAndReplaceAll resolves each file's imports against the store (now
// that every file's own nodes exist) and replaces each file's slice of the
// graph in its own transaction, bounded by the worker count.
func (o *Orchestrator) resolveAndReplaceAll(ctx context.Context, upserts []upserted) []FileResult {
	results := make([]FileResult, len(upserts))
	sem := make(chan struct{}, o.workers)
	var wg sync.WaitGroup
	for i, u := range upserts {
		wg.Add(1)
		go func(i int, u upserted) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.resolveAndReplace(ctx, u)
		}(i, u)
	}
	wg.Wait()
	return results
}

func (o *Orchestrator) resolveAndReplace(ctx context.Context, u upserted) FileResult {
	fr := FileResult{Path: u.path}
	if u.err != nil {
		fr.Err = u.err
		return fr
	}

	// decls excludes the file node itself: u.stored is [file, decl...] in
	// the same order ex.result.Decls was built, matching the containment
	// and by-name lookups below.
	decls := u.stored
	if len(decls) > 0 {
		decls = decls[1:]
	}

	var edges []domain.Edge
	for _, imp := range u.result.Imports {
		targetID, err := o.resolveImportTarget(ctx, u.path, imp)
		if err != nil {
			fr.Warnings = append(fr.Warnings, fmt.Sprintf("%s: unresolved import %q: %v", u.path, imp.Source, err))
			continue
		}
		edges = append(edges, domain.Edge{FromNodeID: u.fileID, ToNodeID: targetID, Type: imp.EdgeType})
	}

	edges = append(edges, o.containsEdges(u.fileID, decls)...)

	declByName := make(map[string]domain.Node, len(decls))
	for _, d := range decls {
		if _, ok := declByName[d.Name]; !ok {
			declByName[d.Name] = d
		}
	}

	for _, ref := range u.result.LocalReferences {
		target, ok := declByName[ref.Name]
		if !ok {
			continue
		}
		fromID := u.fileID
		if container, ok := smallestContaining(decls, ref.Loc, ""); ok {
			fromID = container.ID
		}
		edgeType := "references"
		if ref.Context == "call" {
			edgeType = "calls"
		}
		edges = append(edges, domain.Edge{FromNodeID: fromID, ToNodeID: target.ID, Type: edgeType})
	}

	for _, h := range u.result.Heritage {
		class, ok := declByName[h.ClassName]
		if !ok {
			continue
		}
		baseID, err := o.resolveHeritageBase(ctx, declByName, h.BaseName)
		if err != nil {
			fr.Warnings = append(fr.Warnings, fmt.Sprintf("%s: unresolved %s base %q: %v", u.path, h.EdgeType, h.BaseName, err))
			continue
		}
		edges = append(edges, domain.Edge{FromNodeID: class.ID, ToNodeID: baseID, Type: h.EdgeType})
	}

	for _, exp := range u.result.Exports {
		if exp.Kind != "re-export" {
			continue
		}
		targetID, err := o.resolveImportTarget(ctx, u.path, extractor.ImportEdge{
			Kind:       exp.ImportKind,
			Source:     exp.Source,
			TargetName: exp.TargetName,
		})
		if err != nil {
			fr.Warnings = append(fr.Warnings, fmt.Sprintf("%s: unresolved re-export %q: %v", u.path, exp.Source, err))
			continue
		}
		edges = append(edges, domain.Edge{FromNodeID: u.fileID, ToNodeID: targetID, Type: "re_exports"})
	}

	if _, err := o.store.ReplaceFile(ctx, u.path, u.stored, edges); err != nil {
		fr.Err = fmt.Errorf("orchestrator: replace file %q: %w", u.path, err)
		return fr
	}

	if o.unknowns != nil {
		for _, ref := range u.result.References {
			if _, err := o.unknowns.RegisterUnknown(ctx, domain.UnknownSymbol{
				Name:       ref.Name,
				Kind:       domain.KindUnknown,
				SourceFile: u.path,
				Location:   ref.Loc,
			}); err == nil {
				fr.Unknowns++
			}
		}
	}

	fr.Nodes = len(u.stored)
	fr.Edges = len(edges)
	fr.Warnings = append(fr.Warnings, u.result.Warnings...)
	return fr
}

// containsEdges builds the file's hierarchical backbone: a "contains" edge
// from each decl's smallest enclosing decl (a method's class, say) down to
// that decl, or from the file node itself for every top-level decl. This is
// the one edge type inference.QueryHierarchical walks, so every file that
// contributes any decls at all exercises it.
func (o *Orchestrator) containsEdges(fileID int64, decls []domain.Node) []domain.Edge {
	edges := make([]domain.Edge, 0, len(decls))
	for _, d := range decls {
		fromID := fileID
		if parent, ok := smallestContaining(decls, d.Location, d.Identifier); ok {
			fromID = parent.ID
		}
		edges = append(edges, domain.Edge{FromNodeID: fromID, ToNodeID: d.ID, Type: "contains"})
	}
	return edges
}

// smallestContaining returns the decl among decls (skipping one identified
// by exclude, if any) whose source range most tightly encloses loc, using
// byte offsets. Used both to find a decl's containing decl (for "contains")
// and the decl a reference or call site falls inside of (for
// "calls"/"references").
func smallestContaining(decls []domain.Node, loc domain.Location, exclude string) (domain.Node, bool) {
	best := -1
	bestSpan := 0
	for i, d := range decls {
		if d.Identifier == exclude {
			continue
		}
		if d.Location.EndOffset == 0 || loc.EndOffset == 0 {
			continue
		}
		if d.Location.StartOffset > loc.StartOffset || d.Location.EndOffset < loc.EndOffset {
			continue
		}
		span := d.Location.EndOffset - d.Location.StartOffset
		if best == -1 || span < bestSpan {
			best, bestSpan = i, span
		}
	}
	if best == -1 {
		return domain.Node{}, false
	}
	return decls[best], true
}

// resolveHeritageBase resolves a superclass/interface name to a node id:
// preferentially a same-file decl of that name, otherwise a synthetic
// project-scoped unknown node shared across every file that names this base
// (the same fallback shape resolveImportTarget uses for external targets),
// so a cross-file or cross-package base class still gets a graph node the
// resolver can later equate with the real declaration.
func (o *Orchestrator) resolveHeritageBase(ctx context.Context, declByName map[string]domain.Node, name string) (int64, error) {
	if d, ok := declByName[name]; ok {
		return d.ID, nil
	}
	identifier := domain.BuildIdentifier(o.project, "", domain.KindUnknown, name)
	if n, ok, err := o.store.FindNodeByIdentifier(ctx, identifier); err != nil {
		return 0, err
	} else if ok {
		return n.ID, nil
	}
	saved, err := o.store.UpsertNode(ctx, domain.Node{
		Identifier: identifier,
		Kind:       domain.KindUnknown,
		Name:       name,
		Language:   "unknown",
	})
	if err != nil {
		return 0, err
	}
	return saved.ID, nil
}

// localImportCandidates guesses the file extensions an extension-less
// local import might resolve to, tried in order against the importer's own
// language so a TypeScript file importing "./util" first tries
// "util.ts" before falling back to other languages' extensions.
var localImportCandidates = map[string][]string{
	"go":         {".go"},
	"typescript": {".ts", ".tsx", "/index.ts"},
	"javascript": {".js", ".jsx", "/index.js"},
	"python":     {".py"},
	"java":       {".java"},
	"markdown":   {".md", ".mdx"},
}

// resolveImportTarget finds (or synthesizes) the node an import edge
// should point at: for a local import, the file node at the resolved
// repository path if that file has already been extracted, otherwise a
// synthetic unknown file placeholder; for a package or builtin import, a
// synthetic external node keyed by the canonical library name, shared
// across every file that imports it.
func (o *Orchestrator) resolveImportTarget(ctx context.Context, importerPath string, imp extractor.ImportEdge) (int64, error) {
	if imp.Kind != extractor.ImportLocal {
		identifier := domain.BuildIdentifier(o.project, "", domain.KindExternal, imp.TargetName)
		if n, ok, err := o.store.FindNodeByIdentifier(ctx, identifier); err != nil {
			return 0, err
		} else if ok {
			return n.ID, nil
		}
		saved, err := o.store.UpsertNode(ctx, domain.Node{
			Identifier: identifier,
			Kind:       domain.KindExternal,
			Name:       imp.TargetName,
			Language:   "external",
		})
		if err != nil {
			return 0, err
		}
		return saved.ID, nil
	}

	dir := path.Dir(importerPath)
	base := path.Clean(path.Join(dir, imp.TargetName))

	language := ""
	ext := path.Ext(importerPath)
	for lang, exts := range localImportCandidates {
		for _, e := range exts {
			if e == ext {
				language = lang
			}
		}
	}

	candidates := []string{base}
	for _, e := range localImportCandidates[language] {
		candidates = append(candidates, base+e)
	}
	for _, candidate := range candidates {
		identifier := domain.BuildIdentifier(o.project, candidate, domain.KindFile, path.Base(candidate))
		if n, ok, err := o.store.FindNodeByIdentifier(ctx, identifier); err != nil {
			return 0, err
		} else if ok {
			return n.ID, nil
		}
	}

	identifier := domain.BuildIdentifier(o.project, base, domain.KindUnknown, path.Base(base))
	saved, err := o.store.UpsertNode(ctx, domain.Node{
		Identifier: identifier,
		Kind:       domain.KindUnknown,
		Name:       path.Base(base),
		Language:   "unknown",
	})
	if err != nil {
		return 0, err
	}
	return saved.ID, nil
}
