package inference

import (
	"testing"
	"time"
)

type fakeGen struct{ g int64 }

func (f fakeGen) Generation(edgeType string) int64 { return f.g }

func TestCacheHitAndMiss(t *testing.T) {
	c := NewCache(time.Minute, 100)
	key := Key{QueryKind: "transitive", StartNode: 1, EdgeType: "imports"}

	if _, ok := c.Get(key, fakeGen{1}); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put(key, []CachedEdge{{FromNodeID: 1, ToNodeID: 2, Type: "imports"}}, 1)

	got, ok := c.Get(key, fakeGen{1})
	if !ok || len(got) != 1 {
		t.Fatalf("expected hit with 1 edge, got %v ok=%v", got, ok)
	}
}

func TestCacheInvalidatedByGeneration(t *testing.T) {
	c := NewCache(time.Minute, 100)
	key := Key{QueryKind: "transitive", StartNode: 1, EdgeType: "imports"}
	c.Put(key, []CachedEdge{{FromNodeID: 1, ToNodeID: 2}}, 1)

	if _, ok := c.Get(key, fakeGen{2}); ok {
		t.Fatal("expected miss after generation advanced")
	}
	if _, ok := c.Get(key, fakeGen{2}); ok {
		t.Fatal("entry should have been evicted, not just masked")
	}
}

func TestCacheInvalidateByEdgeType(t *testing.T) {
	c := NewCache(time.Minute, 100)
	k1 := Key{QueryKind: "transitive", StartNode: 1, EdgeType: "imports"}
	k2 := Key{QueryKind: "transitive", StartNode: 1, EdgeType: "extends"}
	c.Put(k1, []CachedEdge{{FromNodeID: 1, ToNodeID: 2}}, 1)
	c.Put(k2, []CachedEdge{{FromNodeID: 1, ToNodeID: 3}}, 1)

	c.Invalidate("imports")

	if _, ok := c.Get(k1, fakeGen{1}); ok {
		t.Fatal("expected imports entry gone after invalidate")
	}
	if _, ok := c.Get(k2, fakeGen{1}); !ok {
		t.Fatal("expected extends entry to survive invalidate of a different type")
	}
}

func TestCacheExpiresByAge(t *testing.T) {
	c := NewCache(time.Millisecond, 100)
	key := Key{QueryKind: "hierarchical", StartNode: 5, EdgeType: "extends"}
	c.Put(key, []CachedEdge{{FromNodeID: 5, ToNodeID: 6}}, 1)

	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get(key, fakeGen{1}); ok {
		t.Fatal("expected entry to expire by age")
	}
}
