// Package inference derives edges implied by explicit edges under the edge
// type registry's algebra: transitive closure, hierarchical inheritance, and
// specialization. Results are memoized in a generation-versioned Cache and
// can be computed individually or as part of a bounded-parallelism batch.
package inference

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/edgetypes"
	"github.com/oxhq/codegraph/graphstore"
	"github.com/oxhq/codegraph/internal/apperrors"
)

// Store is the subset of graphstore.Store the engine reads and writes
// through; narrowed to an interface so tests can fake it.
type Store interface {
	FindEdges(ctx context.Context, f graphstore.EdgeFilter) ([]domain.Edge, error)
	FindNodeByID(ctx context.Context, id int64) (domain.Node, bool, error)
	UpsertEdge(ctx context.Context, e domain.Edge) (domain.Edge, error)
	Generation(edgeType string) int64
}

// Engine answers inference queries against a graphstore.Store under an
// edgetypes.Registry's algebra.
type Engine struct {
	store    Store
	registry *edgetypes.Registry
	cache    *Cache
}

// New builds an engine with a cache bounded by maxAge/maxEntries (zero
// maxAge disables time-based expiry; generation checks still apply).
func New(store Store, registry *edgetypes.Registry, maxAge time.Duration, maxEntries int) *Engine {
	return &Engine{store: store, registry: registry, cache: NewCache(maxAge, maxEntries)}
}

// Result is what a closure query returns: the derived edges, whether the
// walk was cut short by maxDepth, and whether the underlying edges formed a
// cycle the walk had to stop revisiting. Neither condition is a failure —
// both are reported so a caller can tell "fully explored" apart from
// "stopped early" or "looped back on itself".
type Result struct {
	Edges         []domain.Edge
	Truncated     bool
	CycleDetected bool
}

// edgeToCached/cachedToEdge convert between the store's domain.Edge and the
// cache's storage-agnostic CachedEdge, so the cache package never imports
// graphstore.
func edgeToCached(e domain.Edge) CachedEdge {
	return CachedEdge{FromNodeID: e.FromNodeID, ToNodeID: e.ToNodeID, Type: e.Type, Rule: e.Rule, Path: e.Path}
}

func cachedToEdge(c CachedEdge) domain.Edge {
	return domain.Edge{FromNodeID: c.FromNodeID, ToNodeID: c.ToNodeID, Type: c.Type, Derived: true, Rule: c.Rule, Path: c.Path}
}

func edgesToCached(es []domain.Edge) []CachedEdge {
	out := make([]CachedEdge, len(es))
	for i, e := range es {
		out[i] = edgeToCached(e)
	}
	return out
}

func cachedToEdges(cs []CachedEdge) []domain.Edge {
	out := make([]domain.Edge, len(cs))
	for i, c := range cs {
		out[i] = cachedToEdge(c)
	}
	return out
}

// sortTargetsLex orders a frontier by the node identifier its elements
// point at, the tie-break transitive/hierarchical traversal both use.
func (e *Engine) sortTargetsLex(ctx context.Context, ids []int64) ([]int64, error) {
	type pair struct {
		id   int64
		name string
	}
	pairs := make([]pair, 0, len(ids))
	for _, id := range ids {
		n, ok, err := e.store.FindNodeByID(ctx, id)
		if err != nil {
			return nil, err
		}
		name := ""
		if ok {
			name = n.Identifier
		}
		pairs = append(pairs, pair{id, name})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })
	out := make([]int64, len(pairs))
	for i, p := range pairs {
		out[i] = p.id
	}
	return out, nil
}

func mustEdgeType(r *edgetypes.Registry, typ string) error {
	if _, ok := r.Get(typ); !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownEdgeType, typ)
	}
	return nil
}
