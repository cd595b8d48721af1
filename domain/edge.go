package domain

import "time"

// DependencyKind refines an edge's metadata with the sub-kind of dependency
// observed by the extractor (import, require, dynamic import, type-only
// import, re-export).
type DependencyKind string

const (
	DepImport  DependencyKind = "import"
	DepRequire DependencyKind = "require"
	DepDynamic DependencyKind = "dynamic"
	DepType    DependencyKind = "type"
	DepReExport DependencyKind = "re-export"
)

// Edge is a directed relationship between two nodes, named by an edge type
// registered in edgetypes.
type Edge struct {
	ID         int64    `json:"id"`
	FromNodeID int64    `json:"fromNode"`
	ToNodeID   int64    `json:"toNode"`
	Type       string   `json:"type"`
	Metadata   Metadata `json:"metadata,omitempty"`

	// Derived is false for edges written directly by the extractor, true
	// for edges materialized by the inference engine.
	Derived bool `json:"derived"`
	// Rule identifies the inference rule that produced a derived edge.
	// Empty for explicit edges.
	Rule string `json:"rule,omitempty"`
	// Path is the ordered list of underlying edge ids justifying a
	// derived edge, when the rule composes other edges (transitive and
	// hierarchical inference). Empty for explicit edges and for
	// single-hop derivations such as specialization.
	Path []int64 `json:"path,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// UniqueKey returns the tuple that the store's uniqueness constraint is
// defined over: (fromNode, toNode, type, derived, rule).
func (e Edge) UniqueKey() [5]any {
	return [5]any{e.FromNodeID, e.ToNodeID, e.Type, e.Derived, e.Rule}
}
