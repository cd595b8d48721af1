package resolver

import (
	"context"
	"testing"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/graphstore"
)

// fakeStore is a minimal in-memory Store for resolver tests.
type fakeStore struct {
	nodes        []domain.Node
	unknowns     []domain.UnknownSymbol
	relations    []domain.EquivalenceRelation
	nextRelID    int64
}

func (f *fakeStore) RegisterUnknown(ctx context.Context, u domain.UnknownSymbol) (domain.UnknownSymbol, error) {
	for _, existing := range f.unknowns {
		if existing.Name == u.Name && existing.SourceFile == u.SourceFile && existing.Location == u.Location {
			return existing, nil
		}
	}
	u.ID = int64(len(f.unknowns) + 1)
	f.unknowns = append(f.unknowns, u)
	return u, nil
}

func (f *fakeStore) SearchUnknowns(ctx context.Context, nameLike string, onlyUnresolved bool) ([]domain.UnknownSymbol, error) {
	return f.unknowns, nil
}

func (f *fakeStore) FindNodes(ctx context.Context, filt graphstore.NodeFilter) ([]domain.Node, error) {
	var out []domain.Node
	for _, n := range f.nodes {
		if filt.Kind != "" && n.Kind != filt.Kind {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeStore) CreateEquivalence(ctx context.Context, e domain.EquivalenceRelation) (domain.EquivalenceRelation, error) {
	f.nextRelID++
	e.ID = f.nextRelID
	f.relations = append(f.relations, e)
	return e, nil
}

func (f *fakeStore) ValidateEquivalence(ctx context.Context, id int64) error {
	for i, r := range f.relations {
		if r.ID == id {
			f.relations[i].Validated = true
			return nil
		}
	}
	return errNotFound
}

func (f *fakeStore) EquivalencesFor(ctx context.Context, unknownID int64) ([]domain.EquivalenceRelation, error) {
	var out []domain.EquivalenceRelation
	for _, r := range f.relations {
		if r.UnknownID == unknownID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Statistics(ctx context.Context) (graphstore.Statistics, error) {
	validated := int64(0)
	for _, r := range f.relations {
		if r.Validated {
			validated++
		}
	}
	return graphstore.Statistics{TotalUnknowns: int64(len(f.unknowns)), ValidatedRelations: validated}, nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var errNotFound = notFoundError{}

func strPtr(s string) *string { return &s }

func TestFindCandidatesRanksMultiRuleAgreementFirst(t *testing.T) {
	store := &fakeStore{
		nodes: []domain.Node{
			// exact_name_match + type_based_match: same name, same kind.
			{ID: 1, Name: "Foo", Kind: domain.KindFunction, SourceFile: strPtr("a.go")},
			// type_based_match (case-insensitive) + context_based_match
			// (same file as the unknown), but never exact.
			{ID: 2, Name: "foo", Kind: domain.KindFunction, SourceFile: strPtr("c.go")},
		},
	}
	u := domain.UnknownSymbol{ID: 10, Name: "Foo", Kind: domain.KindFunction, SourceFile: "c.go"}

	r := New(store, 0.5)
	candidates, err := r.FindCandidates(context.Background(), u)
	if err != nil {
		t.Fatalf("FindCandidates: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(candidates), candidates)
	}
	if candidates[0].Known.ID != 1 {
		t.Fatalf("expected node 1 (exact+type agreement) to rank first, got %+v", candidates[0])
	}
	if candidates[0].Rule != domain.RuleExactName {
		t.Fatalf("expected strongest rule reported as exact_name_match, got %v", candidates[0].Rule)
	}
	if candidates[0].Confidence <= candidates[1].Confidence {
		t.Fatalf("expected agreement bonus to separate scores: %+v", candidates)
	}
}

func TestBatchInferSkipsBelowFloor(t *testing.T) {
	store := &fakeStore{
		nodes: []domain.Node{
			{ID: 1, Name: "Bar", Kind: domain.KindClass, SourceFile: strPtr("a.go")},
		},
	}
	us := []domain.UnknownSymbol{
		{ID: 1, Name: "Bar", Kind: domain.KindClass, SourceFile: "x.go"},
		{ID: 2, Name: "Nothing", Kind: domain.KindClass, SourceFile: "x.go"},
	}

	r := New(store, 0.8)
	results, err := r.BatchInfer(context.Background(), us)
	if err != nil {
		t.Fatalf("BatchInfer: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Created == nil {
		t.Fatalf("expected exact_name_match (0.90) to clear a 0.8 floor: %+v", results[0])
	}
	if results[1].Created != nil {
		t.Fatalf("expected no candidate for 'Nothing', got %+v", results[1])
	}
}

func TestCombineConfidenceMonotonic(t *testing.T) {
	single := combineConfidence([]float64{0.75})
	agreed := combineConfidence([]float64{0.75, 0.60})
	if agreed <= single {
		t.Fatalf("expected agreement to raise confidence: single=%v agreed=%v", single, agreed)
	}
	capped := combineConfidence([]float64{0.90, 0.75, 0.70, 0.60})
	if capped > maxConfidence {
		t.Fatalf("expected combined confidence capped at %v, got %v", maxConfidence, capped)
	}
}

func TestValidateRejectsUnknownID(t *testing.T) {
	store := &fakeStore{}
	r := New(store, 0.5)
	if err := r.Validate(context.Background(), 999); err == nil {
		t.Fatal("expected error validating a nonexistent relation")
	}
}

func TestExplainCandidateShowsDiff(t *testing.T) {
	u := domain.UnknownSymbol{Name: "pkg.Foo", SourceFile: "c.go"}
	c := Candidate{Known: domain.Node{Identifier: "proj/b.go#function:Foo", SourceFile: strPtr("b.go")}}
	out, err := ExplainCandidate(u, c)
	if err != nil {
		t.Fatalf("ExplainCandidate: %v", err)
	}
	if out == "" {
		t.Fatal("expected a non-empty diff for differing names")
	}
}
