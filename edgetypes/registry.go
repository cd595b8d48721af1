// Package edgetypes is the process-wide catalog of edge kinds and their
// algebraic properties. It is one of the two places the design allows a
// package-level singleton (the other is parserpool): every caller in a
// process must agree on what "transitive" or "hierarchical" means for a
// given type name.
package edgetypes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/internal/apperrors"
)

// Registry is a thread-safe, append-mostly catalog of EdgeTypeSpecs.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]domain.EdgeTypeSpec
	// hierarchical caches the single hierarchical type name, if any.
	hierarchical string
}

// New returns an empty registry. Callers register their own edge types;
// the registry has no built-in knowledge of any particular vocabulary.
func New() *Registry {
	return &Registry{specs: make(map[string]domain.EdgeTypeSpec)}
}

// Register adds spec to the catalog. Registration is idempotent by type: an
// identical re-registration is a no-op, a conflicting one fails with
// ErrEdgeTypeConflict. Registering a second hierarchical type also fails,
// since the hierarchical type must be unique per registry instance.
func (r *Registry) Register(spec domain.EdgeTypeSpec) error {
	if spec.Type == "" {
		return fmt.Errorf("edge type name must not be empty")
	}
	if spec.Parent == spec.Type {
		return fmt.Errorf("edge type %q cannot specialize itself", spec.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.specs[spec.Type]; ok {
		if existing.Conflicts(spec) {
			return fmt.Errorf("%w: %q already registered with different properties", apperrors.ErrEdgeTypeConflict, spec.Type)
		}
		return nil
	}

	if spec.Parent != "" {
		if _, ok := r.specs[spec.Parent]; !ok {
			return fmt.Errorf("edge type %q specializes unregistered parent %q", spec.Type, spec.Parent)
		}
		if r.wouldCycle(spec.Type, spec.Parent) {
			return fmt.Errorf("edge type %q would create a specialization cycle via %q", spec.Type, spec.Parent)
		}
	}

	if spec.IsHierarchical {
		if r.hierarchical != "" && r.hierarchical != spec.Type {
			return fmt.Errorf("%w: hierarchical type already set to %q, cannot also register %q", apperrors.ErrEdgeTypeConflict, r.hierarchical, spec.Type)
		}
		r.hierarchical = spec.Type
	}

	r.specs[spec.Type] = spec
	return nil
}

// wouldCycle reports whether walking parent pointers starting at parent ever
// reaches typ, which would make the specialization graph cyclic once typ is
// linked under parent. Must be called with r.mu held.
func (r *Registry) wouldCycle(typ, parent string) bool {
	seen := map[string]bool{typ: true}
	cur := parent
	for cur != "" {
		if seen[cur] {
			return true
		}
		seen[cur] = true
		spec, ok := r.specs[cur]
		if !ok {
			return false
		}
		cur = spec.Parent
	}
	return false
}

// Get returns the spec registered for typ, if any.
func (r *Registry) Get(typ string) (domain.EdgeTypeSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[typ]
	return spec, ok
}

// MustGet returns the spec for typ or ErrUnknownEdgeType.
func (r *Registry) MustGet(typ string) (domain.EdgeTypeSpec, error) {
	spec, ok := r.Get(typ)
	if !ok {
		return domain.EdgeTypeSpec{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownEdgeType, typ)
	}
	return spec, nil
}

// TransitiveTypes returns every registered type with IsTransitive set,
// sorted by name.
func (r *Registry) TransitiveTypes() []string {
	return r.filterSorted(func(s domain.EdgeTypeSpec) bool { return s.IsTransitive })
}

// InheritableTypes returns every registered type with IsInheritable set,
// sorted by name.
func (r *Registry) InheritableTypes() []string {
	return r.filterSorted(func(s domain.EdgeTypeSpec) bool { return s.IsInheritable })
}

// HierarchicalType returns the unique hierarchical type, if one has been
// registered.
func (r *Registry) HierarchicalType() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hierarchical, r.hierarchical != ""
}

// Children returns the types that directly specialize parent.
func (r *Registry) Children(parent string) []string {
	return r.filterSorted(func(s domain.EdgeTypeSpec) bool { return s.Parent == parent })
}

// Ancestors returns parent, grandparent, ... up to the root, for typ.
func (r *Registry) Ancestors(typ string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	cur, ok := r.specs[typ]
	if !ok {
		return nil
	}
	for cur.Parent != "" {
		out = append(out, cur.Parent)
		next, ok := r.specs[cur.Parent]
		if !ok {
			break
		}
		cur = next
	}
	return out
}

func (r *Registry) filterSorted(pred func(domain.EdgeTypeSpec) bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for typ, spec := range r.specs {
		if pred(spec) {
			out = append(out, typ)
		}
	}
	sort.Strings(out)
	return out
}

// Stats summarizes the catalog's contents.
type Stats struct {
	Total        int
	Transitive   int
	Inheritable  int
	Hierarchical bool
	Roots        int
}

// Statistics reports counts across the catalog.
func (r *Registry) Statistics() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s Stats
	s.Total = len(r.specs)
	s.Hierarchical = r.hierarchical != ""
	for _, spec := range r.specs {
		if spec.IsTransitive {
			s.Transitive++
		}
		if spec.IsInheritable {
			s.Inheritable++
		}
		if spec.Parent == "" {
			s.Roots++
		}
	}
	return s
}

// DefaultRegistry is the process-wide registry most callers share, mirroring
// the Parser Pool's own process-wide singleton.
var DefaultRegistry = New()

// Register delegates to DefaultRegistry.
func Register(spec domain.EdgeTypeSpec) error { return DefaultRegistry.Register(spec) }

// Get delegates to DefaultRegistry.
func Get(typ string) (domain.EdgeTypeSpec, bool) { return DefaultRegistry.Get(typ) }
