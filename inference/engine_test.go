package inference

import (
	"context"
	"testing"
	"time"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/edgetypes"
	"github.com/oxhq/codegraph/graphstore"
)

// fakeStore is a minimal in-memory Store for engine tests: no persistence,
// no transactions, just enough surface to drive the closure algorithms.
type fakeStore struct {
	nodes map[int64]domain.Node
	edges []domain.Edge
	nextEdgeID int64
	gens  map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{nodes: map[int64]domain.Node{}, gens: map[string]int64{}}
}

func (f *fakeStore) addNode(id int64, identifier string) {
	f.nodes[id] = domain.Node{ID: id, Identifier: identifier}
}

func (f *fakeStore) addEdge(from, to int64, typ string) {
	f.nextEdgeID++
	f.edges = append(f.edges, domain.Edge{ID: f.nextEdgeID, FromNodeID: from, ToNodeID: to, Type: typ})
	f.gens[typ]++
}

func (f *fakeStore) FindEdges(ctx context.Context, filt graphstore.EdgeFilter) ([]domain.Edge, error) {
	var out []domain.Edge
	for _, e := range f.edges {
		if filt.Type != "" && e.Type != filt.Type {
			continue
		}
		if filt.FromNodeID != 0 && e.FromNodeID != filt.FromNodeID {
			continue
		}
		if filt.ToNodeID != 0 && e.ToNodeID != filt.ToNodeID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) FindNodeByID(ctx context.Context, id int64) (domain.Node, bool, error) {
	n, ok := f.nodes[id]
	return n, ok, nil
}

func (f *fakeStore) UpsertEdge(ctx context.Context, e domain.Edge) (domain.Edge, error) {
	f.nextEdgeID++
	e.ID = f.nextEdgeID
	f.edges = append(f.edges, e)
	return e, nil
}

func (f *fakeStore) Generation(edgeType string) int64 { return f.gens[edgeType] }

func newTestRegistry(t *testing.T) *edgetypes.Registry {
	t.Helper()
	r := edgetypes.New()
	if err := r.Register(domain.EdgeTypeSpec{Type: "depends_on", IsTransitive: true, IsDirected: true}); err != nil {
		t.Fatalf("register depends_on: %v", err)
	}
	if err := r.Register(domain.EdgeTypeSpec{Type: "contains", IsHierarchical: true, IsDirected: true}); err != nil {
		t.Fatalf("register contains: %v", err)
	}
	if err := r.Register(domain.EdgeTypeSpec{Type: "calls", IsInheritable: true, IsDirected: true}); err != nil {
		t.Fatalf("register calls: %v", err)
	}
	if err := r.Register(domain.EdgeTypeSpec{Type: "imports_file", IsDirected: true, Parent: "depends_on"}); err != nil {
		t.Fatalf("register imports_file: %v", err)
	}
	return r
}

func TestQueryTransitiveFollowsChain(t *testing.T) {
	store := newFakeStore()
	store.addNode(1, "a")
	store.addNode(2, "b")
	store.addNode(3, "c")
	store.addEdge(1, 2, "depends_on")
	store.addEdge(2, 3, "depends_on")

	eng := New(store, newTestRegistry(t), time.Minute, 100)
	res, err := eng.QueryTransitive(context.Background(), 1, "depends_on", 2)
	if err != nil {
		t.Fatalf("QueryTransitive: %v", err)
	}
	if len(res.Edges) != 2 {
		t.Fatalf("expected 2 derived edges, got %d: %+v", len(res.Edges), res.Edges)
	}
	if res.Edges[1].Path[0] != 1 || res.Edges[1].Path[1] != 2 {
		t.Fatalf("expected 2-hop path [1,2], got %v", res.Edges[1].Path)
	}
}

func TestQueryTransitiveStopsAtCycle(t *testing.T) {
	store := newFakeStore()
	store.addNode(1, "a")
	store.addNode(2, "b")
	store.addEdge(1, 2, "depends_on")
	store.addEdge(2, 1, "depends_on")

	eng := New(store, newTestRegistry(t), time.Minute, 100)
	res, err := eng.QueryTransitive(context.Background(), 1, "depends_on", 5)
	if err != nil {
		t.Fatalf("QueryTransitive: %v", err)
	}
	if len(res.Edges) != 1 {
		t.Fatalf("expected cycle to yield exactly 1 reachable node, got %d: %+v", len(res.Edges), res.Edges)
	}
	if !res.CycleDetected {
		t.Fatal("expected CycleDetected to be true")
	}
}

func TestQueryTransitiveDiamondIsNotACycle(t *testing.T) {
	store := newFakeStore()
	store.addNode(1, "a")
	store.addNode(2, "b")
	store.addNode(3, "c")
	store.addNode(4, "d")
	store.addEdge(1, 2, "depends_on")
	store.addEdge(1, 3, "depends_on")
	store.addEdge(2, 4, "depends_on")
	store.addEdge(3, 4, "depends_on")

	eng := New(store, newTestRegistry(t), time.Minute, 100)
	res, err := eng.QueryTransitive(context.Background(), 1, "depends_on", 3)
	if err != nil {
		t.Fatalf("QueryTransitive: %v", err)
	}
	if len(res.Edges) != 3 {
		t.Fatalf("expected 3 reachable nodes (b, c, d), got %d: %+v", len(res.Edges), res.Edges)
	}
	if res.CycleDetected {
		t.Fatal("a diamond dependency is not a cycle, expected CycleDetected false")
	}
}

func TestQueryTransitiveUnknownEdgeType(t *testing.T) {
	store := newFakeStore()
	eng := New(store, newTestRegistry(t), time.Minute, 100)
	if _, err := eng.QueryTransitive(context.Background(), 1, "nope", 1); err == nil {
		t.Fatal("expected error for unregistered edge type")
	}
}

func TestSpecializationEdgesSurfaceUnderParentType(t *testing.T) {
	store := newFakeStore()
	store.addNode(1, "a")
	store.addNode(2, "b")
	store.addEdge(1, 2, "imports_file")

	eng := New(store, newTestRegistry(t), time.Minute, 100)
	edges, err := eng.SpecializationEdges(context.Background(), "imports_file")
	if err != nil {
		t.Fatalf("SpecializationEdges: %v", err)
	}
	if len(edges) != 1 || edges[0].Type != "depends_on" {
		t.Fatalf("expected 1 implicit depends_on edge, got %+v", edges)
	}
}

func TestHierarchicalInheritanceMaterializesOnDescendant(t *testing.T) {
	store := newFakeStore()
	store.addNode(1, "parent")
	store.addNode(2, "child")
	store.addNode(3, "callee")
	store.addEdge(1, 2, "contains")
	store.addEdge(1, 3, "calls")

	eng := New(store, newTestRegistry(t), time.Minute, 100)
	res, err := eng.QueryHierarchical(context.Background(), 2, "calls", HierarchicalOptions{IncludeParents: true, MaxDepth: 1})
	if err != nil {
		t.Fatalf("QueryHierarchical: %v", err)
	}
	if len(res.Edges) != 1 || res.Edges[0].Rule != "inherited_via_hierarchy" {
		t.Fatalf("expected 1 inherited edge, got %+v", res.Edges)
	}
	if res.Edges[0].FromNodeID != 2 || res.Edges[0].ToNodeID != 3 {
		t.Fatalf("expected inherited edge from child to callee, got %+v", res.Edges[0])
	}
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	store.addNode(1, "a")
	store.addNode(2, "b")
	store.addEdge(1, 2, "depends_on")

	eng := New(store, newTestRegistry(t), time.Minute, 100)
	jobs := []Job{
		{Kind: "transitive", Start: 1, EdgeType: "depends_on", MaxDepth: 1},
		{Kind: "transitive", Start: 1, EdgeType: "nonexistent", MaxDepth: 1},
	}
	results := eng.RunBatch(context.Background(), jobs, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("expected first job to succeed, got %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Fatal("expected second job to fail on unknown edge type")
	}
}
