package inference

import (
	"context"
	"fmt"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/graphstore"
)

// HierarchicalOptions controls which direction queryHierarchical walks the
// containment tree and how far.
type HierarchicalOptions struct {
	IncludeChildren bool
	IncludeParents  bool
	MaxDepth        int
}

// QueryHierarchical walks the registry's hierarchical edge type up and/or
// down from focal, and at every visited ancestor/descendant collects
// outgoing edgeType edges, reporting each one found on another node as a
// derived edge from focal, rule inherited_via_hierarchy. If edgeType is
// inheritable, the derived edges taken from focal's ancestors are also
// materialized via UpsertEdge; those taken from descendants are only
// returned.
func (e *Engine) QueryHierarchical(ctx context.Context, focal int64, edgeType string, opts HierarchicalOptions) (Result, error) {
	if err := mustEdgeType(e.registry, edgeType); err != nil {
		return Result{}, err
	}
	spec, _ := e.registry.Get(edgeType)
	hierType, ok := e.registry.HierarchicalType()
	if !ok {
		return Result{}, fmt.Errorf("no hierarchical edge type registered")
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 1
	}

	key := Key{QueryKind: "hierarchical", StartNode: focal, EdgeType: edgeType,
		Params: fmt.Sprintf("children=%v,parents=%v,maxDepth=%d", opts.IncludeChildren, opts.IncludeParents, maxDepth)}
	if cached, ok := e.cache.Get(key, e.store); ok {
		return Result{Edges: cachedToEdges(cached)}, nil
	}

	var related []int64
	ancestors := map[int64]bool{}
	if opts.IncludeChildren {
		ids, err := e.walkHierarchy(ctx, focal, hierType, maxDepth, false)
		if err != nil {
			return Result{}, err
		}
		related = append(related, ids...)
	}
	if opts.IncludeParents {
		ids, err := e.walkHierarchy(ctx, focal, hierType, maxDepth, true)
		if err != nil {
			return Result{}, err
		}
		related = append(related, ids...)
		for _, id := range ids {
			ancestors[id] = true
		}
	}

	var result []domain.Edge
	for _, nodeID := range related {
		edges, err := e.store.FindEdges(ctx, graphstore.EdgeFilter{Type: edgeType, FromNodeID: nodeID, OnlyExplicit: true})
		if err != nil {
			return Result{}, err
		}
		for _, edge := range edges {
			derived := edge
			if nodeID != focal {
				derived = domain.Edge{
					FromNodeID: focal,
					ToNodeID:   edge.ToNodeID,
					Type:       edgeType,
					Derived:    true,
					Rule:       "inherited_via_hierarchy",
				}
				if spec.IsInheritable && ancestors[nodeID] {
					if stored, err := e.store.UpsertEdge(ctx, derived); err == nil {
						derived = stored
					}
				}
			}
			result = append(result, derived)
		}
	}

	e.cache.Put(key, edgesToCached(result), e.store.Generation(edgeType))
	return Result{Edges: result}, nil
}

// walkHierarchy returns the ancestors (up=true) or descendants (up=false)
// of start within maxDepth hops of the hierarchical edge type, BFS ordered.
func (e *Engine) walkHierarchy(ctx context.Context, start int64, hierType string, maxDepth int, up bool) ([]int64, error) {
	visited := map[int64]bool{start: true}
	frontier := []int64{start}
	var out []int64

	for depth := 1; depth <= maxDepth; depth++ {
		var targets []int64
		for _, node := range frontier {
			var edges []domain.Edge
			var err error
			if up {
				edges, err = e.store.FindEdges(ctx, graphstore.EdgeFilter{Type: hierType, ToNodeID: node, OnlyExplicit: true})
			} else {
				edges, err = e.store.FindEdges(ctx, graphstore.EdgeFilter{Type: hierType, FromNodeID: node, OnlyExplicit: true})
			}
			if err != nil {
				return nil, err
			}
			for _, edge := range edges {
				id := edge.ToNodeID
				if up {
					id = edge.FromNodeID
				}
				if !visited[id] {
					targets = append(targets, id)
				}
			}
		}
		ordered, err := e.sortTargetsLex(ctx, dedupe(targets))
		if err != nil {
			return nil, err
		}
		var next []int64
		for _, id := range ordered {
			if visited[id] {
				continue
			}
			visited[id] = true
			out = append(out, id)
			next = append(next, id)
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return out, nil
}
