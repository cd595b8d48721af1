package inference

import (
	"context"
	"fmt"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/graphstore"
	"github.com/oxhq/codegraph/internal/apperrors"
)

// SpecializationEdges returns, for every explicit edge of childType, an
// implicit edge of its registered parent type with the same endpoints and
// rule specialization_of(child,parent). These are exposed on demand, not
// persisted: a consumer asking for the parent type sees both real
// parent-typed edges and these synthesized ones, while a consumer asking
// for childType sees only the explicit rows.
func (e *Engine) SpecializationEdges(ctx context.Context, childType string) ([]domain.Edge, error) {
	spec, ok := e.registry.Get(childType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownEdgeType, childType)
	}
	if spec.Parent == "" {
		return nil, nil
	}

	edges, err := e.store.FindEdges(ctx, graphstore.EdgeFilter{Type: childType, OnlyExplicit: true})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Edge, 0, len(edges))
	for _, edge := range edges {
		out = append(out, domain.Edge{
			FromNodeID: edge.FromNodeID,
			ToNodeID:   edge.ToNodeID,
			Type:       spec.Parent,
			Derived:    true,
			Rule:       fmt.Sprintf("specialization_of(%s,%s)", childType, spec.Parent),
			Path:       []int64{edge.ID},
		})
	}
	return out, nil
}

// EffectiveEdges returns every edge (explicit or specialization-implied)
// visible when a caller asks for typ: explicit rows of typ itself, plus any
// explicit rows of a type that specializes typ, surfaced through
// SpecializationEdges.
func (e *Engine) EffectiveEdges(ctx context.Context, typ string) ([]domain.Edge, error) {
	direct, err := e.store.FindEdges(ctx, graphstore.EdgeFilter{Type: typ, OnlyExplicit: true})
	if err != nil {
		return nil, err
	}
	out := append([]domain.Edge{}, direct...)
	for _, child := range e.registry.Children(typ) {
		implied, err := e.SpecializationEdges(ctx, child)
		if err != nil {
			return nil, err
		}
		out = append(out, implied...)
	}
	return out, nil
}
