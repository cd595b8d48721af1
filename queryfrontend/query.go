// Package queryfrontend translates a small, language-neutral query shape
// (select / where / group-by / having / order-by / limit / offset) into
// graphstore reads, pushing down what the store's filters can express and
// finishing the rest in memory.
package queryfrontend

// Op is a comparison operator usable in a Cond.
type Op string

const (
	Eq        Op = "="
	Ne        Op = "!="
	Gt        Op = ">"
	Lt        Op = "<"
	Ge        Op = ">="
	Le        Op = "<="
	Like      Op = "LIKE"
	In        Op = "IN"
	NotIn     Op = "NOT_IN"
	Exists    Op = "EXISTS"
	NotExists Op = "NOT_EXISTS"
)

// Where is a boolean combination of conditions: And, Or, Not, or a leaf
// Cond. Exactly one of these four should be non-zero.
type Where struct {
	And  []Where
	Or   []Where
	Not  *Where
	Cond *Cond
}

// Cond is one `field OP value` leaf condition. Field names a node or edge
// attribute (identifier, kind, name, sourceFile, language, metadata.<key>
// for nodes; id, fromNode, toNode, type, derived, rule for edges).
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Target names which entity kind a Query reads.
type Target string

const (
	TargetNodes Target = "nodes"
	TargetEdges Target = "edges"
)

// OrderTerm is one orderBy clause term.
type OrderTerm struct {
	Field string
	Desc  bool
}

// Query is the full external query shape.
type Query struct {
	Target  Target
	Select  []string // nil or ["*"] means every field
	Where   *Where
	GroupBy []string
	Having  *Where
	OrderBy []OrderTerm
	Limit   int
	Offset  int
}

// leaf builds a Where wrapping a single Cond, for terser construction.
func leaf(field string, op Op, value any) Where {
	return Where{Cond: &Cond{Field: field, Op: op, Value: value}}
}

// And combines conditions conjunctively.
func And(parts ...Where) Where { return Where{And: parts} }

// OrW combines conditions disjunctively. Named OrW to avoid shadowing the
// builtin-adjacent "or" as a bare identifier at call sites.
func OrW(parts ...Where) Where { return Where{Or: parts} }

// NotW negates a condition.
func NotW(w Where) Where { return Where{Not: &w} }

// Eq, Lt, etc. as constructors read naturally at call sites:
// queryfrontend.FieldEq("kind", "function").
func FieldEq(field string, value any) Where       { return leaf(field, Eq, value) }
func FieldNe(field string, value any) Where       { return leaf(field, Ne, value) }
func FieldLike(field string, value any) Where     { return leaf(field, Like, value) }
func FieldIn(field string, values any) Where      { return leaf(field, In, values) }
func FieldExists(field string) Where              { return leaf(field, Exists, nil) }
func FieldNotExists(field string) Where           { return leaf(field, NotExists, nil) }
