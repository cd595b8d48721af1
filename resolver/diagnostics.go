package resolver

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/codegraph/domain"
)

// ExplainCandidate renders a unified diff between an unknown symbol's
// reference text and a candidate's identifier, so a reviewer deciding
// whether to validate a proposed equivalence can see exactly what differs
// (a namespace prefix, a case change, a path segment) instead of just the
// two bare strings.
func ExplainCandidate(u domain.UnknownSymbol, c Candidate) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(u.Name + "\n"),
		B:        difflib.SplitLines(c.Known.Identifier + "\n"),
		FromFile: "unknown:" + u.SourceFile,
		ToFile:   "known:" + derefOrEmpty(c.Known.SourceFile),
		Context:  0,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
