package queryfrontend

import (
	"context"
	"sort"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/graphstore"
)

// Store is the slice of graphstore.Store the frontend reads from.
type Store interface {
	FindNodes(ctx context.Context, f graphstore.NodeFilter) ([]domain.Node, error)
	FindEdges(ctx context.Context, f graphstore.EdgeFilter) ([]domain.Edge, error)
}

// Frontend executes Query values against a Store.
type Frontend struct {
	store Store
}

// New returns a Frontend backed by store.
func New(store Store) *Frontend {
	return &Frontend{store: store}
}

// Row is one result row: a projection's field name to value, or for a
// grouped query, the group-by fields plus a synthetic "count".
type Row map[string]any

// Result is a query's full output.
type Result struct {
	Rows []Row
}

// Execute pushes down whatever q.Where can become a store-level filter,
// evaluates the full predicate in memory as a correctness backstop, then
// applies grouping, having, ordering, limit, and offset.
func (f *Frontend) Execute(ctx context.Context, q Query) (Result, error) {
	switch q.Target {
	case TargetEdges:
		return f.executeEdges(ctx, q)
	default:
		return f.executeNodes(ctx, q)
	}
}

func (f *Frontend) executeNodes(ctx context.Context, q Query) (Result, error) {
	filter := nodeFilterFor(q.Where)
	nodes, err := f.store.FindNodes(ctx, filter)
	if err != nil {
		return Result{}, err
	}

	var rows []Row
	for _, n := range nodes {
		if !evalWhere(q.Where, func(field string) any { return nodeField(n, field) }) {
			continue
		}
		rows = append(rows, projectNode(n, q.Select))
	}
	return finish(rows, q), nil
}

func (f *Frontend) executeEdges(ctx context.Context, q Query) (Result, error) {
	filter := edgeFilterFor(q.Where)
	edges, err := f.store.FindEdges(ctx, filter)
	if err != nil {
		return Result{}, err
	}

	var rows []Row
	for _, e := range edges {
		if !evalWhere(q.Where, func(field string) any { return edgeField(e, field) }) {
			continue
		}
		rows = append(rows, projectEdge(e, q.Select))
	}
	return finish(rows, q), nil
}

// nodeFilterFor extracts the equality conditions a flat conjunction of
// Conds can push down onto graphstore.NodeFilter. Anything under an Or or
// Not, or any non-equality operator, is left for evalWhere's in-memory
// pass — pushdown is strictly an optimization, never load-bearing for
// correctness.
func nodeFilterFor(w *Where) graphstore.NodeFilter {
	var filter graphstore.NodeFilter
	for _, c := range flatEqualityConds(w) {
		s, ok := c.Value.(string)
		if !ok {
			continue
		}
		switch c.Field {
		case "language":
			filter.Language = s
		case "kind":
			filter.Kind = domain.NodeKind(s)
		case "sourceFile":
			filter.SourceFile = s
		}
	}
	return filter
}

func edgeFilterFor(w *Where) graphstore.EdgeFilter {
	var filter graphstore.EdgeFilter
	for _, c := range flatEqualityConds(w) {
		switch c.Field {
		case "type":
			if s, ok := c.Value.(string); ok {
				filter.Type = s
			}
		case "fromNode":
			if id, ok := toInt64(c.Value); ok {
				filter.FromNodeID = id
			}
		case "toNode":
			if id, ok := toInt64(c.Value); ok {
				filter.ToNodeID = id
			}
		case "derived":
			if b, ok := c.Value.(bool); ok {
				if b {
					filter.OnlyDerived = true
				} else {
					filter.OnlyExplicit = true
				}
			}
		}
	}
	return filter
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	default:
		return 0, false
	}
}

// flatEqualityConds walks a tree of nested Ands collecting every Eq leaf
// reachable without crossing an Or or Not boundary.
func flatEqualityConds(w *Where) []Cond {
	if w == nil {
		return nil
	}
	var out []Cond
	if w.Cond != nil && w.Cond.Op == Eq {
		out = append(out, *w.Cond)
	}
	for _, sub := range w.And {
		out = append(out, flatEqualityConds(&sub)...)
	}
	return out
}

func projectNode(n domain.Node, fields []string) Row {
	if isWildcard(fields) {
		return Row{
			"id": n.ID, "identifier": n.Identifier, "kind": string(n.Kind),
			"name": n.Name, "sourceFile": nodeField(n, "sourceFile"),
			"language": n.Language, "metadata": n.Metadata,
			"createdAt": n.CreatedAt, "updatedAt": n.UpdatedAt,
		}
	}
	row := make(Row, len(fields))
	for _, field := range fields {
		row[field] = nodeField(n, field)
	}
	return row
}

func projectEdge(e domain.Edge, fields []string) Row {
	if isWildcard(fields) {
		return Row{
			"id": e.ID, "fromNode": e.FromNodeID, "toNode": e.ToNodeID,
			"type": e.Type, "derived": e.Derived, "rule": e.Rule,
			"metadata": e.Metadata, "createdAt": e.CreatedAt,
		}
	}
	row := make(Row, len(fields))
	for _, field := range fields {
		row[field] = edgeField(e, field)
	}
	return row
}

func isWildcard(fields []string) bool {
	return len(fields) == 0 || (len(fields) == 1 && fields[0] == "*")
}

// finish applies grouping, having, ordering, limit, and offset to rows
// already filtered by Where.
func finish(rows []Row, q Query) Result {
	if len(q.GroupBy) > 0 {
		rows = group(rows, q.GroupBy, q.Having)
	}
	if len(q.OrderBy) > 0 {
		sortRows(rows, q.OrderBy)
	}
	rows = paginate(rows, q.Limit, q.Offset)
	return Result{Rows: rows}
}

func group(rows []Row, by []string, having *Where) []Row {
	type groupKey string
	counts := make(map[groupKey]int)
	firstSeen := make(map[groupKey]Row)
	order := make([]groupKey, 0)

	for _, r := range rows {
		key := groupKeyFor(r, by)
		if _, ok := counts[key]; !ok {
			order = append(order, key)
			values := make(Row, len(by)+1)
			for _, field := range by {
				values[field] = r[field]
			}
			firstSeen[key] = values
		}
		counts[key]++
	}

	grouped := make([]Row, 0, len(order))
	for _, key := range order {
		row := firstSeen[key]
		row["count"] = counts[key]
		if having != nil && !evalWhere(having, func(field string) any { return row[field] }) {
			continue
		}
		grouped = append(grouped, row)
	}
	return grouped
}

func groupKeyFor(r Row, by []string) string {
	key := ""
	for _, field := range by {
		key += toString(r[field]) + "\x00"
	}
	return key
}

func sortRows(rows []Row, terms []OrderTerm) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, t := range terms {
			c, ok := compare(rows[i][t.Field], rows[j][t.Field])
			if !ok || c == 0 {
				continue
			}
			if t.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func paginate(rows []Row, limit, offset int) []Row {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
