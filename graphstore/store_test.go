package graphstore

import (
	"context"
	"testing"

	"github.com/oxhq/codegraph/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertNodeIsIdempotentByIdentifier(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n := domain.Node{Identifier: "proj/a.go#function:Foo", Kind: domain.KindFunction, Name: "Foo", Language: "go"}
	first, err := s.UpsertNode(ctx, n)
	if err != nil {
		t.Fatalf("UpsertNode: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected assigned id")
	}

	n.Name = "FooRenamed"
	second, err := s.UpsertNode(ctx, n)
	if err != nil {
		t.Fatalf("UpsertNode (update): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same id on re-upsert, got %d vs %d", second.ID, first.ID)
	}
	if second.Name != "FooRenamed" {
		t.Fatalf("expected updated name, got %q", second.Name)
	}
}

func TestUpsertEdgeBumpsGeneration(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, _ := s.UpsertNode(ctx, domain.Node{Identifier: "proj/a.go#file:a", Kind: domain.KindFile, Name: "a", Language: "go"})
	b, _ := s.UpsertNode(ctx, domain.Node{Identifier: "proj/b.go#file:b", Kind: domain.KindFile, Name: "b", Language: "go"})

	before := s.Generation("imports")
	if _, err := s.UpsertEdge(ctx, domain.Edge{FromNodeID: a.ID, ToNodeID: b.ID, Type: "imports"}); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	if s.Generation("imports") != before+1 {
		t.Fatalf("expected generation to advance by 1, got %d -> %d", before, s.Generation("imports"))
	}

	if _, err := s.UpsertEdge(ctx, domain.Edge{FromNodeID: a.ID, ToNodeID: b.ID, Type: "imports"}); err != nil {
		t.Fatalf("UpsertEdge (duplicate): %v", err)
	}
	if s.Generation("imports") != before+1 {
		t.Fatal("duplicate edge insert must not bump generation again")
	}
}

func TestReplaceFileDropsStaleNodes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	path := "proj/a.go"

	old := domain.Node{Identifier: "proj/a.go#function:Old", Kind: domain.KindFunction, Name: "Old", SourceFile: &path, Language: "go"}
	if _, err := s.UpsertNode(ctx, old); err != nil {
		t.Fatalf("seed: %v", err)
	}

	fresh := domain.Node{Identifier: "proj/a.go#function:New", Kind: domain.KindFunction, Name: "New", SourceFile: &path, Language: "go"}
	stored, err := s.ReplaceFile(ctx, path, []domain.Node{fresh}, nil)
	if err != nil {
		t.Fatalf("ReplaceFile: %v", err)
	}
	if len(stored) != 1 || stored[0].Name != "New" {
		t.Fatalf("unexpected stored nodes: %+v", stored)
	}

	nodes, err := s.FindNodes(ctx, NodeFilter{SourceFile: path})
	if err != nil {
		t.Fatalf("FindNodes: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Name != "New" {
		t.Fatalf("expected only the replacement node to survive, got %+v", nodes)
	}
}

func TestRegisterUnknownIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := domain.UnknownSymbol{Name: "widget", SourceFile: "a.go", Location: domain.Location{Line: 10, Column: 4}}
	first, err := s.RegisterUnknown(ctx, u)
	if err != nil {
		t.Fatalf("RegisterUnknown: %v", err)
	}
	second, err := s.RegisterUnknown(ctx, u)
	if err != nil {
		t.Fatalf("RegisterUnknown (dup): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same unknown id on duplicate registration, got %d vs %d", first.ID, second.ID)
	}
}
