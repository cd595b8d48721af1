// Package resolver proposes and manages equivalences between unresolved
// symbol references (UnknownSymbol) and known declarations (domain.Node).
// It never invents a node: every equivalence it proposes points at a node
// the graph store already holds, and every proposal stays unvalidated
// until a caller (human or a stricter rule upstream) confirms it.
package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/graphstore"
)

// Store is the slice of graphstore.Store the resolver needs. Defined here,
// rather than imported as the concrete type, so tests can swap in an
// in-memory fake.
type Store interface {
	RegisterUnknown(ctx context.Context, u domain.UnknownSymbol) (domain.UnknownSymbol, error)
	SearchUnknowns(ctx context.Context, nameLike string, onlyUnresolved bool) ([]domain.UnknownSymbol, error)
	FindNodes(ctx context.Context, f graphstore.NodeFilter) ([]domain.Node, error)
	CreateEquivalence(ctx context.Context, e domain.EquivalenceRelation) (domain.EquivalenceRelation, error)
	ValidateEquivalence(ctx context.Context, id int64) error
	EquivalencesFor(ctx context.Context, unknownID int64) ([]domain.EquivalenceRelation, error)
	Statistics(ctx context.Context) (graphstore.Statistics, error)
}

// Resolver matches unknown symbols against known nodes and records the
// resulting equivalences.
type Resolver struct {
	store Store
	// floor is the minimum combined confidence batchInfer will record
	// automatically; candidates below it are surfaced but not proposed.
	floor float64
}

// New returns a Resolver backed by store. floor defaults to 0.5 when <= 0.
func New(store Store, floor float64) *Resolver {
	if floor <= 0 {
		floor = 0.5
	}
	return &Resolver{store: store, floor: floor}
}

// RegisterUnknown records an unresolved reference, deduplicating on name,
// source file, and location.
func (r *Resolver) RegisterUnknown(ctx context.Context, u domain.UnknownSymbol) (domain.UnknownSymbol, error) {
	return r.store.RegisterUnknown(ctx, u)
}

// FindCandidates runs every rule against every node sharing u's kind (or
// every node, if u's kind wasn't guessed at extraction time) and returns
// the matches ranked by combined confidence, highest first.
func (r *Resolver) FindCandidates(ctx context.Context, u domain.UnknownSymbol) ([]Candidate, error) {
	filter := graphstore.NodeFilter{}
	if u.Kind != "" && u.Kind != domain.KindUnknown {
		filter.Kind = u.Kind
	}
	known, err := r.store.FindNodes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("resolver: find candidates: %w", err)
	}

	type agg struct {
		known       domain.Node
		confidences []float64
		rules       []domain.EquivalenceRule
	}
	byKnown := map[int64]*agg{}
	order := []int64{}

	for _, k := range known {
		for _, rl := range rules {
			if !rl.Match(u, k) {
				continue
			}
			a, ok := byKnown[k.ID]
			if !ok {
				a = &agg{known: k}
				byKnown[k.ID] = a
				order = append(order, k.ID)
			}
			a.confidences = append(a.confidences, rl.Confidence)
			a.rules = append(a.rules, rl.Name)
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		a := byKnown[id]
		out = append(out, Candidate{
			Known:      a.known,
			Confidence: combineConfidence(a.confidences),
			Rule:       strongestRule(a.rules, a.confidences),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out, nil
}

// strongestRule returns the name of whichever matched rule carried the
// highest individual confidence, so a combined (possibly bonused) score is
// still attributed to one reportable rule.
func strongestRule(names []domain.EquivalenceRule, confidences []float64) domain.EquivalenceRule {
	best := 0
	for i, c := range confidences {
		if c > confidences[best] {
			best = i
		}
	}
	return names[best]
}

// CreateEquivalence proposes rel, which stays unvalidated until Validate is
// called.
func (r *Resolver) CreateEquivalence(ctx context.Context, rel domain.EquivalenceRelation) (domain.EquivalenceRelation, error) {
	return r.store.CreateEquivalence(ctx, rel)
}

// Validate marks a proposed relation as confirmed after a cheap sanity
// check: it must exist, and a relation already invalidated by an earlier
// manual rejection (tracked by the caller, not here) should never reach
// this call in the first place.
func (r *Resolver) Validate(ctx context.Context, id int64) error {
	return r.store.ValidateEquivalence(ctx, id)
}

// BatchResult pairs an unknown symbol with whatever equivalence batchInfer
// proposed for it, or nil if nothing cleared the confidence floor.
type BatchResult struct {
	Unknown domain.UnknownSymbol
	Created *domain.EquivalenceRelation
}

// BatchInfer runs FindCandidates for every unknown in us and, for each one
// whose top candidate clears the resolver's floor, proposes an equivalence
// via CreateEquivalence. Unknowns with no candidate above the floor are
// still reported, with Created left nil, so a caller can track coverage.
func (r *Resolver) BatchInfer(ctx context.Context, us []domain.UnknownSymbol) ([]BatchResult, error) {
	out := make([]BatchResult, 0, len(us))
	for _, u := range us {
		candidates, err := r.FindCandidates(ctx, u)
		if err != nil {
			return nil, err
		}
		res := BatchResult{Unknown: u}
		if len(candidates) > 0 && candidates[0].Confidence >= r.floor {
			top := candidates[0]
			created, err := r.store.CreateEquivalence(ctx, domain.EquivalenceRelation{
				UnknownID:  u.ID,
				KnownID:    top.Known.ID,
				Rule:       top.Rule,
				Confidence: top.Confidence,
			})
			if err != nil {
				return nil, fmt.Errorf("resolver: propose equivalence for unknown %d: %w", u.ID, err)
			}
			res.Created = &created
		}
		out = append(out, res)
	}
	return out, nil
}

// SearchUnknowns exposes the store's unknown-symbol search, optionally
// restricted to symbols with no validated equivalence yet.
func (r *Resolver) SearchUnknowns(ctx context.Context, nameLike string, onlyUnresolved bool) ([]domain.UnknownSymbol, error) {
	return r.store.SearchUnknowns(ctx, nameLike, onlyUnresolved)
}

// EquivalencesFor returns every relation proposed for an unknown symbol,
// most confident first.
func (r *Resolver) EquivalencesFor(ctx context.Context, unknownID int64) ([]domain.EquivalenceRelation, error) {
	return r.store.EquivalencesFor(ctx, unknownID)
}

// Stats reports resolution coverage: the total number of unknown symbols
// and the number of validated equivalence relations.
type Stats struct {
	TotalUnknowns      int64
	ValidatedRelations int64
}

func (r *Resolver) Stats(ctx context.Context) (Stats, error) {
	st, err := r.store.Statistics(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalUnknowns: st.TotalUnknowns, ValidatedRelations: st.ValidatedRelations}, nil
}
