package domain

// EdgeTypeSpec describes the algebraic properties of one named relationship
// kind, as registered in the edge type registry.
type EdgeTypeSpec struct {
	Type string

	// IsTransitive: A-t->B and B-t->C implies A-t->C.
	IsTransitive bool
	// IsInheritable: an outgoing edge from a parent in a containment
	// hierarchy is inherited by its children.
	IsInheritable bool
	// IsHierarchical declares this type as the containment relation used
	// by inheritability. At most one type in a registry may set this.
	IsHierarchical bool
	// IsDirected is always true in this design; kept explicit because the
	// registry's conflict check compares it on re-registration.
	IsDirected bool
	// Priority breaks ties when multiple rules could justify the same
	// derived edge.
	Priority int
	// Parent, if non-empty, names a more abstract type this one
	// specializes (e.g. imports_file specializes depends_on).
	Parent string
}

// Conflicts reports whether other disagrees with spec on any field that
// re-registration must agree on. Type is the registry key and is not
// compared here.
func (s EdgeTypeSpec) Conflicts(other EdgeTypeSpec) bool {
	return s.IsTransitive != other.IsTransitive ||
		s.IsInheritable != other.IsInheritable ||
		s.IsHierarchical != other.IsHierarchical ||
		s.IsDirected != other.IsDirected ||
		s.Parent != other.Parent
}
