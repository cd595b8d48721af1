package inference

import (
	"context"
	"fmt"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/graphstore"
)

// QueryTransitive returns every node reachable from start along edgeType
// within 1..maxDepth hops (maxDepth<=0 behaves as maxDepth=1: immediate
// successors only), breadth-first, ties broken by target identifier. Each
// result edge's Path lists the underlying explicit edge ids justifying it;
// a node already visited at a shallower depth is never revisited, which
// also makes the walk safe against cycles. Result.CycleDetected reports
// whether any traversed edge pointed back at one of its own ancestors in
// the walk (a true cycle); an edge merely converging on a node some other
// branch already reached (ordinary DAG sharing) doesn't count.
func (e *Engine) QueryTransitive(ctx context.Context, start int64, edgeType string, maxDepth int) (Result, error) {
	if err := mustEdgeType(e.registry, edgeType); err != nil {
		return Result{}, err
	}
	spec, _ := e.registry.Get(edgeType)
	if !spec.IsTransitive {
		return Result{}, fmt.Errorf("edge type %q is not transitive", edgeType)
	}
	if maxDepth <= 0 {
		maxDepth = 1
	}

	key := Key{QueryKind: "transitive", StartNode: start, EdgeType: edgeType, Params: fmt.Sprintf("maxDepth=%d", maxDepth)}
	if cached, ok := e.cache.Get(key, e.store); ok {
		return Result{Edges: cachedToEdges(cached), CycleDetected: e.cache.cycleFlag(key)}, nil
	}

	visited := map[int64]bool{start: true}
	paths := map[int64][]int64{start: nil}
	// ancestors[n] is the node-id chain from start to n, inclusive of both;
	// used only to tell a genuine back-edge (cycle) apart from a forward
	// edge that happens to converge on an already-visited node.
	ancestors := map[int64][]int64{start: {start}}
	frontier := []int64{start}
	var result []domain.Edge
	truncated := false
	cycleDetected := false

	for depth := 1; depth <= maxDepth; depth++ {
		type candidate struct {
			from, to, edgeID int64
		}
		var candidates []candidate
		for _, from := range frontier {
			edges, err := e.store.FindEdges(ctx, graphstore.EdgeFilter{Type: edgeType, FromNodeID: from, OnlyExplicit: true})
			if err != nil {
				return Result{}, err
			}
			for _, edge := range edges {
				isAncestor := false
				for _, a := range ancestors[from] {
					if a == edge.ToNodeID {
						isAncestor = true
						break
					}
				}
				if isAncestor {
					cycleDetected = true
					continue
				}
				if visited[edge.ToNodeID] {
					continue // ordinary DAG convergence, not a cycle
				}
				candidates = append(candidates, candidate{from: from, to: edge.ToNodeID, edgeID: edge.ID})
			}
		}

		seenThisDepth := map[int64]candidate{}
		var targets []int64
		for _, c := range candidates {
			if _, ok := seenThisDepth[c.to]; !ok {
				seenThisDepth[c.to] = c
				targets = append(targets, c.to)
			}
		}

		ordered, err := e.sortTargetsLex(ctx, targets)
		if err != nil {
			return Result{}, err
		}

		var nextFrontier []int64
		for _, target := range ordered {
			if visited[target] {
				continue
			}
			visited[target] = true
			c := seenThisDepth[target]
			path := append(append([]int64{}, paths[c.from]...), c.edgeID)
			paths[target] = path
			ancestors[target] = append(append([]int64{}, ancestors[c.from]...), target)
			nextFrontier = append(nextFrontier, target)
			result = append(result, domain.Edge{
				FromNodeID: start,
				ToNodeID:   target,
				Type:       edgeType,
				Derived:    true,
				Rule:       "transitive_closure",
				Path:       path,
			})
		}

		frontier = nextFrontier
		if len(frontier) == 0 {
			break
		}
		if depth == maxDepth {
			// The walk still had a live frontier when the depth budget ran
			// out: nodes beyond it may exist but were not explored.
			truncated = true
		}
	}

	e.cache.PutTransitive(key, edgesToCached(result), cycleDetected, e.store.Generation(edgeType))
	return Result{Edges: result, Truncated: truncated, CycleDetected: cycleDetected}, nil
}
