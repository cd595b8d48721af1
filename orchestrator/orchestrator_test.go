package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/extractor"
)

// fakeExtractor returns a canned Result per path, or an error for paths
// listed in fail.
type fakeExtractor struct {
	results map[string]extractor.Result
	fail    map[string]error
}

func (f *fakeExtractor) Extract(ctx context.Context, filePath string, src []byte) (extractor.Result, error) {
	if err, ok := f.fail[filePath]; ok {
		return extractor.Result{}, err
	}
	return f.results[filePath], nil
}

// fakeStore is a minimal concurrency-safe in-memory Store for orchestrator
// tests; ProcessBatch drives it from multiple goroutines.
type fakeStore struct {
	mu        sync.Mutex
	byIdent   map[string]domain.Node
	nextID    int64
	replaced  map[string][]domain.Edge
	nodeCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byIdent: map[string]domain.Node{}, replaced: map[string][]domain.Edge{}}
}

func (f *fakeStore) UpsertNode(ctx context.Context, n domain.Node) (domain.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nodeCalls++
	if existing, ok := f.byIdent[n.Identifier]; ok {
		n.ID = existing.ID
		f.byIdent[n.Identifier] = n
		return n, nil
	}
	f.nextID++
	n.ID = f.nextID
	f.byIdent[n.Identifier] = n
	return n, nil
}

func (f *fakeStore) FindNodeByIdentifier(ctx context.Context, identifier string) (domain.Node, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.byIdent[identifier]
	return n, ok, nil
}

func (f *fakeStore) ReplaceFile(ctx context.Context, path string, nodes []domain.Node, explicitEdges []domain.Edge) ([]domain.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced[path] = explicitEdges
	return nodes, nil
}

// fakeUnknowns records every RegisterUnknown call.
type fakeUnknowns struct {
	mu   sync.Mutex
	seen []domain.UnknownSymbol
}

func (f *fakeUnknowns) RegisterUnknown(ctx context.Context, u domain.UnknownSymbol) (domain.UnknownSymbol, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = int64(len(f.seen) + 1)
	f.seen = append(f.seen, u)
	return u, nil
}

func fileNode(project, filePath string) domain.Node {
	return domain.Node{
		Identifier: domain.BuildIdentifier(project, filePath, domain.KindFile, filePath),
		Kind:       domain.KindFile,
		Name:       filePath,
		SourceFile: &filePath,
		Language:   "go",
	}
}

func TestProcessBatchResolvesCrossFileLocalImport(t *testing.T) {
	const project = "proj"
	ex := &fakeExtractor{
		results: map[string]extractor.Result{
			"a.go": {
				File: fileNode(project, "a.go"),
				Imports: []extractor.ImportEdge{
					{EdgeType: "imports_file", Kind: extractor.ImportLocal, Source: "./b", TargetName: "./b"},
				},
			},
			"b.go": {File: fileNode(project, "b.go")},
		},
	}
	store := newFakeStore()
	orch := New(ex, store, nil, project, 2)

	batch := orch.ProcessBatch(context.Background(), map[string][]byte{"a.go": nil, "b.go": nil})
	require.Zero(t, batch.Failed)
	require.Equal(t, 2, batch.Succeeded)

	edges := store.replaced["a.go"]
	require.Len(t, edges, 1)
	bNode := store.byIdent[domain.BuildIdentifier(project, "b.go", domain.KindFile, "b.go")]
	require.Equal(t, bNode.ID, edges[0].ToNodeID)
	require.Equal(t, "imports_file", edges[0].Type)
}

func TestProcessBatchSynthesizesPackageNode(t *testing.T) {
	const project = "proj"
	ex := &fakeExtractor{
		results: map[string]extractor.Result{
			"a.go": {
				File: fileNode(project, "a.go"),
				Imports: []extractor.ImportEdge{
					{EdgeType: "imports_builtin", Kind: extractor.ImportBuiltin, Source: "fmt", TargetName: "fmt"},
				},
			},
		},
	}
	store := newFakeStore()
	orch := New(ex, store, nil, project, 1)

	batch := orch.ProcessBatch(context.Background(), map[string][]byte{"a.go": nil})
	require.Zero(t, batch.Failed)
	identifier := domain.BuildIdentifier(project, "", domain.KindExternal, "fmt")
	_, ok := store.byIdent[identifier]
	require.True(t, ok, "expected synthetic external node for fmt, got %+v", store.byIdent)
}

func TestProcessBatchOneFailureDoesNotAbortSiblings(t *testing.T) {
	const project = "proj"
	ex := &fakeExtractor{
		results: map[string]extractor.Result{
			"ok.go": {File: fileNode(project, "ok.go")},
		},
		fail: map[string]error{"bad.go": fmt.Errorf("boom")},
	}
	store := newFakeStore()
	orch := New(ex, store, nil, project, 2)

	batch := orch.ProcessBatch(context.Background(), map[string][]byte{"ok.go": nil, "bad.go": nil})
	require.Equal(t, 1, batch.Succeeded)
	require.Equal(t, 1, batch.Failed)
	for _, r := range batch.Files {
		if r.Path == "bad.go" {
			require.Error(t, r.Err)
		}
		if r.Path == "ok.go" {
			require.NoError(t, r.Err)
		}
	}
}

func TestProcessBatchEmitsContainsEdges(t *testing.T) {
	const project = "proj"
	filePath := "a.go"
	classLoc := domain.Location{StartOffset: 0, EndOffset: 100}
	methodLoc := domain.Location{StartOffset: 10, EndOffset: 50}
	ex := &fakeExtractor{
		results: map[string]extractor.Result{
			filePath: {
				File: fileNode(project, filePath),
				Decls: []domain.Node{
					{Identifier: domain.BuildIdentifier(project, filePath, domain.KindClass, "Widget"), Kind: domain.KindClass, Name: "Widget", SourceFile: &filePath, Location: classLoc},
					{Identifier: domain.BuildIdentifier(project, filePath, domain.KindMethod, "Render"), Kind: domain.KindMethod, Name: "Render", SourceFile: &filePath, Location: methodLoc},
				},
			},
		},
	}
	store := newFakeStore()
	orch := New(ex, store, nil, project, 1)

	batch := orch.ProcessBatch(context.Background(), map[string][]byte{filePath: nil})
	require.Zero(t, batch.Failed)

	edges := store.replaced[filePath]
	require.Len(t, edges, 2)
	fileID := store.byIdent[domain.BuildIdentifier(project, filePath, domain.KindFile, filePath)].ID
	classID := store.byIdent[domain.BuildIdentifier(project, filePath, domain.KindClass, "Widget")].ID
	methodID := store.byIdent[domain.BuildIdentifier(project, filePath, domain.KindMethod, "Render")].ID

	var sawFileToClass, sawClassToMethod bool
	for _, e := range edges {
		require.Equal(t, "contains", e.Type)
		if e.FromNodeID == fileID && e.ToNodeID == classID {
			sawFileToClass = true
		}
		if e.FromNodeID == classID && e.ToNodeID == methodID {
			sawClassToMethod = true
		}
	}
	require.True(t, sawFileToClass, "expected file-to-class contains edge, got %+v", edges)
	require.True(t, sawClassToMethod, "expected class-to-method contains edge, got %+v", edges)
}

func TestProcessBatchEmitsCallAndHeritageEdges(t *testing.T) {
	const project = "proj"
	filePath := "a.ts"
	classLoc := domain.Location{StartOffset: 0, EndOffset: 200}
	funcLoc := domain.Location{StartOffset: 210, EndOffset: 250}
	ex := &fakeExtractor{
		results: map[string]extractor.Result{
			filePath: {
				File: fileNode(project, filePath),
				Decls: []domain.Node{
					{Identifier: domain.BuildIdentifier(project, filePath, domain.KindClass, "Widget"), Kind: domain.KindClass, Name: "Widget", SourceFile: &filePath, Location: classLoc},
					{Identifier: domain.BuildIdentifier(project, filePath, domain.KindFunction, "helper"), Kind: domain.KindFunction, Name: "helper", SourceFile: &filePath, Location: funcLoc},
				},
				LocalReferences: []extractor.LocalReference{
					{Name: "helper", Context: "call", Loc: domain.Location{StartOffset: 300, EndOffset: 306}},
				},
				Heritage: []extractor.HeritageEdge{
					{ClassName: "Widget", BaseName: "BaseWidget", EdgeType: "extends"},
				},
			},
		},
	}
	store := newFakeStore()
	orch := New(ex, store, nil, project, 1)

	batch := orch.ProcessBatch(context.Background(), map[string][]byte{filePath: nil})
	require.Zero(t, batch.Failed)

	edges := store.replaced[filePath]
	fileID := store.byIdent[domain.BuildIdentifier(project, filePath, domain.KindFile, filePath)].ID
	classID := store.byIdent[domain.BuildIdentifier(project, filePath, domain.KindClass, "Widget")].ID
	helperID := store.byIdent[domain.BuildIdentifier(project, filePath, domain.KindFunction, "helper")].ID
	baseID := store.byIdent[domain.BuildIdentifier(project, "", domain.KindUnknown, "BaseWidget")].ID

	var sawCall, sawExtends bool
	for _, e := range edges {
		if e.Type == "calls" && e.FromNodeID == fileID && e.ToNodeID == helperID {
			sawCall = true
		}
		if e.Type == "extends" && e.FromNodeID == classID && e.ToNodeID == baseID {
			sawExtends = true
		}
	}
	require.True(t, sawCall, "expected a calls edge from the file to helper, got %+v", edges)
	require.True(t, sawExtends, "expected an extends edge from Widget to BaseWidget, got %+v", edges)
}

func TestProcessBatchEmitsReExportEdge(t *testing.T) {
	const project = "proj"
	ex := &fakeExtractor{
		results: map[string]extractor.Result{
			"index.ts": {
				File: fileNode(project, "index.ts"),
				Exports: []extractor.ExportRecord{
					{Name: "Helper", Kind: "re-export", Source: "./helper", ImportKind: extractor.ImportLocal, TargetName: "./helper"},
				},
			},
			"helper.ts": {File: fileNode(project, "helper.ts")},
		},
	}
	store := newFakeStore()
	orch := New(ex, store, nil, project, 2)

	batch := orch.ProcessBatch(context.Background(), map[string][]byte{"index.ts": nil, "helper.ts": nil})
	require.Zero(t, batch.Failed)

	edges := store.replaced["index.ts"]
	require.Len(t, edges, 1)
	require.Equal(t, "re_exports", edges[0].Type)
	targetID := store.byIdent[domain.BuildIdentifier(project, "helper.ts", domain.KindFile, "helper.ts")].ID
	require.Equal(t, targetID, edges[0].ToNodeID)
}

func TestProcessBatchRegistersUnknownReferences(t *testing.T) {
	const project = "proj"
	ex := &fakeExtractor{
		results: map[string]extractor.Result{
			"a.go": {
				File:       fileNode(project, "a.go"),
				References: []extractor.UnresolvedReference{{Name: "mystery"}},
			},
		},
	}
	store := newFakeStore()
	unknowns := &fakeUnknowns{}
	orch := New(ex, store, unknowns, project, 1)

	batch := orch.ProcessBatch(context.Background(), map[string][]byte{"a.go": nil})
	require.Equal(t, 1, batch.Files[0].Unknowns)
	require.Len(t, unknowns.seen, 1)
	require.Equal(t, "mystery", unknowns.seen[0].Name)
}
