package domain

// UnknownSymbol is a reference whose declaration could not be resolved at
// extraction time.
type UnknownSymbol struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Kind       NodeKind `json:"kind"`
	SourceFile string   `json:"sourceFile"`
	Location   Location `json:"location,omitempty"`
	IsImported bool     `json:"isImported"`
	IsAlias    bool     `json:"isAlias"`

	// Confidence is the extractor's prior for the guessed kind, not the
	// resolver's confidence in any proposed equivalence.
	Confidence float64 `json:"confidence"`
}

// IdentityKey is the tuple registerUnknown is idempotent on.
func (u UnknownSymbol) IdentityKey() [3]any {
	return [3]any{u.Name, u.SourceFile, u.Location}
}

// EquivalenceRule names the resolver rule that proposed an equivalence.
type EquivalenceRule string

const (
	RuleExactName    EquivalenceRule = "exact_name_match"
	RuleTypeBased    EquivalenceRule = "type_based_match"
	RuleContextBased EquivalenceRule = "context_based_match"
	RuleSemantic     EquivalenceRule = "semantic_match"
	RuleManual       EquivalenceRule = "manual"
)

// EquivalenceRelation is a proposed identity between an UnknownSymbol and a
// known Node.
type EquivalenceRelation struct {
	ID         int64           `json:"id"`
	UnknownID  int64           `json:"unknownId"`
	KnownID    int64           `json:"knownId"`
	Rule       EquivalenceRule `json:"rule"`
	Confidence float64         `json:"confidence"`
	Validated  bool            `json:"validated"`
}
