package resolver

import (
	"strings"

	"github.com/oxhq/codegraph/domain"
)

// rule evaluates one candidate Known node against an UnknownSymbol. ok is
// false when the rule simply doesn't apply (not a failure, just silence).
type rule struct {
	Name       domain.EquivalenceRule
	Priority   int
	Confidence float64
	Match      func(u domain.UnknownSymbol, k domain.Node) bool
}

// rules is the priority-ordered rule list, matching the confidence table:
// exact name+kind match outranks a case-insensitive match, which outranks
// same-file proximity, which outranks the metadata-based heuristic.
var rules = []rule{
	{
		Name:       domain.RuleExactName,
		Priority:   1,
		Confidence: 0.90,
		Match: func(u domain.UnknownSymbol, k domain.Node) bool {
			return u.Name == k.Name && u.Kind == k.Kind
		},
	},
	{
		Name:       domain.RuleTypeBased,
		Priority:   2,
		Confidence: 0.75,
		Match: func(u domain.UnknownSymbol, k domain.Node) bool {
			return strings.EqualFold(u.Name, k.Name) && u.Kind == k.Kind
		},
	},
	{
		Name:       domain.RuleContextBased,
		Priority:   3,
		Confidence: 0.70,
		// Same sourceFile alone would match every unresolved name against
		// every declaration in the file, which turns one real reference
		// into a pile of unrelated candidates; the leaf-name check keeps
		// this a proximity heuristic instead of a same-file free-for-all.
		Match: func(u domain.UnknownSymbol, k domain.Node) bool {
			return k.SourceFile != nil && *k.SourceFile == u.SourceFile && sameLeafName(u.Name, k.Name)
		},
	},
	{
		Name:       domain.RuleSemantic,
		Priority:   4,
		Confidence: 0.60,
		Match:      semanticMatch,
	},
}

// sameLeafName compares the final dotted/qualified segment of u's name
// against k's name, so a qualified reference like "pkg.Foo" can still match
// a bare declaration named "Foo".
func sameLeafName(unknownName, knownName string) bool {
	leaf := unknownName
	if idx := strings.LastIndexAny(unknownName, ".:"); idx >= 0 {
		leaf = unknownName[idx+1:]
	}
	return strings.EqualFold(leaf, knownName)
}

// semanticMatch is the one rule that looks past name/kind/file and into a
// candidate's metadata: a qualified unknown reference whose namespace
// prefix matches the declaring node's recorded namespace (or enclosing
// class) is a plausible, lower-confidence match.
func semanticMatch(u domain.UnknownSymbol, k domain.Node) bool {
	if !sameLeafName(u.Name, k.Name) {
		return false
	}
	prefix := qualifierPrefix(u.Name)
	if prefix == "" {
		return false
	}
	for _, key := range []string{"namespace", "enclosingClass", "package"} {
		if v, ok := k.Metadata[key]; ok {
			if s, ok := v.(string); ok && strings.EqualFold(s, prefix) {
				return true
			}
		}
	}
	return false
}

func qualifierPrefix(name string) string {
	if idx := strings.LastIndexAny(name, ".:"); idx > 0 {
		return name[:idx]
	}
	return ""
}

// Candidate is a ranked (known node, confidence, rule) triple.
type Candidate struct {
	Known      domain.Node
	Confidence float64
	Rule       domain.EquivalenceRule
}
