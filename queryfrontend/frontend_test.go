package queryfrontend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/graphstore"
)

type fakeStore struct {
	nodes []domain.Node
	edges []domain.Edge
}

func (f *fakeStore) FindNodes(ctx context.Context, filt graphstore.NodeFilter) ([]domain.Node, error) {
	var out []domain.Node
	for _, n := range f.nodes {
		if filt.Kind != "" && n.Kind != filt.Kind {
			continue
		}
		if filt.Language != "" && n.Language != filt.Language {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeStore) FindEdges(ctx context.Context, filt graphstore.EdgeFilter) ([]domain.Edge, error) {
	var out []domain.Edge
	for _, e := range f.edges {
		if filt.Type != "" && e.Type != filt.Type {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func sampleNodes() []domain.Node {
	return []domain.Node{
		{ID: 1, Identifier: "proj/a.go#function:Foo", Kind: domain.KindFunction, Name: "Foo", Language: "go"},
		{ID: 2, Identifier: "proj/a.go#function:Bar", Kind: domain.KindFunction, Name: "Bar", Language: "go"},
		{ID: 3, Identifier: "proj/a.ts#function:Baz", Kind: domain.KindFunction, Name: "Baz", Language: "typescript"},
		{ID: 4, Identifier: "proj/a.go#class:Widget", Kind: domain.KindClass, Name: "Widget", Language: "go"},
	}
}

func TestExecuteNodesPushesDownKindAndFiltersInMemory(t *testing.T) {
	store := &fakeStore{nodes: sampleNodes()}
	f := New(store)

	where := And(FieldEq("kind", "function"), FieldEq("language", "go"))
	res, err := f.Execute(context.Background(), Query{Target: TargetNodes, Where: &where, Select: []string{"name"}})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	names := map[string]bool{}
	for _, r := range res.Rows {
		names[r["name"].(string)] = true
	}
	assert.True(t, names["Foo"])
	assert.True(t, names["Bar"])
}

func TestExecuteNodesOrderByAndLimit(t *testing.T) {
	store := &fakeStore{nodes: sampleNodes()}
	f := New(store)

	where := FieldEq("kind", "function")
	res, err := f.Execute(context.Background(), Query{
		Target:  TargetNodes,
		Where:   &where,
		Select:  []string{"name"},
		OrderBy: []OrderTerm{{Field: "name", Desc: false}},
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Bar", res.Rows[0]["name"])
	assert.Equal(t, "Baz", res.Rows[1]["name"])
}

func TestExecuteNodesGroupByLanguageWithHaving(t *testing.T) {
	store := &fakeStore{nodes: sampleNodes()}
	f := New(store)

	res, err := f.Execute(context.Background(), Query{
		Target:  TargetNodes,
		GroupBy: []string{"language"},
		Having:  refWhere(FieldEq("count", 3)),
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "go", res.Rows[0]["language"])
}

func TestExecuteNodesOrCondition(t *testing.T) {
	store := &fakeStore{nodes: sampleNodes()}
	f := New(store)

	where := OrW(FieldEq("name", "Foo"), FieldEq("name", "Baz"))
	res, err := f.Execute(context.Background(), Query{Target: TargetNodes, Where: &where, Select: []string{"name"}})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
}

func TestLikeMatch(t *testing.T) {
	cases := []struct {
		s, pattern string
		want       bool
	}{
		{"Foo", "Foo", true},
		{"FooBar", "Foo%", true},
		{"FooBar", "%Bar", true},
		{"FooBarBaz", "%Bar%", true},
		{"Foo", "Bar%", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, likeMatch(c.s, c.pattern), "likeMatch(%q, %q)", c.s, c.pattern)
	}
}

func refWhere(w Where) *Where { return &w }
