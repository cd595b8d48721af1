package queryfrontend

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oxhq/codegraph/domain"
)

// nodeField and edgeField read one named attribute off a node or edge. metadata.<key> reaches
// into the Metadata bag; everything else is a fixed struct field.
func nodeField(n domain.Node, name string) any {
	switch name {
	case "id":
		return n.ID
	case "identifier":
		return n.Identifier
	case "kind":
		return string(n.Kind)
	case "name":
		return n.Name
	case "sourceFile":
		if n.SourceFile == nil {
			return nil
		}
		return *n.SourceFile
	case "language":
		return n.Language
	case "createdAt":
		return n.CreatedAt
	case "updatedAt":
		return n.UpdatedAt
	default:
		if key, ok := strings.CutPrefix(name, "metadata."); ok {
			if n.Metadata == nil {
				return nil
			}
			return n.Metadata[key]
		}
		return nil
	}
}

func edgeField(e domain.Edge, name string) any {
	switch name {
	case "id":
		return e.ID
	case "fromNode":
		return e.FromNodeID
	case "toNode":
		return e.ToNodeID
	case "type":
		return e.Type
	case "derived":
		return e.Derived
	case "rule":
		return e.Rule
	case "createdAt":
		return e.CreatedAt
	default:
		if key, ok := strings.CutPrefix(name, "metadata."); ok {
			if e.Metadata == nil {
				return nil
			}
			return e.Metadata[key]
		}
		return nil
	}
}

// evalWhere evaluates w against a field accessor. fieldOf abstracts over
// nodeField/edgeField so the same tree-walk serves both targets.
func evalWhere(w *Where, fieldOf func(string) any) bool {
	if w == nil {
		return true
	}
	switch {
	case w.Cond != nil:
		return evalCond(w.Cond, fieldOf)
	case len(w.And) > 0:
		for _, sub := range w.And {
			if !evalWhere(&sub, fieldOf) {
				return false
			}
		}
		return true
	case len(w.Or) > 0:
		for _, sub := range w.Or {
			if evalWhere(&sub, fieldOf) {
				return true
			}
		}
		return false
	case w.Not != nil:
		return !evalWhere(w.Not, fieldOf)
	default:
		return true
	}
}

func evalCond(c *Cond, fieldOf func(string) any) bool {
	actual := fieldOf(c.Field)
	switch c.Op {
	case Exists:
		return actual != nil
	case NotExists:
		return actual == nil
	case In:
		return containsValue(c.Value, actual)
	case NotIn:
		return !containsValue(c.Value, actual)
	case Like:
		return likeMatch(toString(actual), toString(c.Value))
	}

	cmp, ok := compare(actual, c.Value)
	if !ok {
		return false
	}
	switch c.Op {
	case Eq:
		return cmp == 0
	case Ne:
		return cmp != 0
	case Gt:
		return cmp > 0
	case Lt:
		return cmp < 0
	case Ge:
		return cmp >= 0
	case Le:
		return cmp <= 0
	default:
		return false
	}
}

func containsValue(set any, v any) bool {
	switch vals := set.(type) {
	case []string:
		s := toString(v)
		for _, x := range vals {
			if x == s {
				return true
			}
		}
	case []any:
		for _, x := range vals {
			if c, ok := compare(v, x); ok && c == 0 {
				return true
			}
		}
	}
	return false
}

// likeMatch implements SQL LIKE's "%" wildcard only (the patterns this
// query shape needs: prefix/suffix/substring matches), not "_".
func likeMatch(s, pattern string) bool {
	if !strings.Contains(pattern, "%") {
		return s == pattern
	}
	parts := strings.Split(pattern, "%")
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]
	last := len(parts) - 1
	for i := 1; i < last; i++ {
		part := parts[i]
		if part == "" {
			continue
		}
		idx := strings.Index(s, part)
		if idx < 0 {
			return false
		}
		s = s[idx+len(part):]
	}
	return strings.HasSuffix(s, parts[last])
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// compare orders two field values, reporting false when they aren't
// comparable (nil on one side, or mismatched kinds strconv can't bridge).
func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case int:
		return compareFloat(float64(av), b)
	case int64:
		return compareFloat(float64(av), b)
	case float64:
		return compareFloat(av, b)
	case bool:
		bv, ok := b.(bool)
		if !ok || av == bv {
			return 0, ok
		}
		if av {
			return 1, true
		}
		return -1, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return int(av.Compare(bv)), true
	default:
		return 0, false
	}
}

func compareFloat(av float64, b any) (int, bool) {
	var bv float64
	switch t := b.(type) {
	case int:
		bv = float64(t)
	case int64:
		bv = float64(t)
	case float64:
		bv = t
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		bv = parsed
	default:
		return 0, false
	}
	switch {
	case av < bv:
		return -1, true
	case av > bv:
		return 1, true
	default:
		return 0, true
	}
}
