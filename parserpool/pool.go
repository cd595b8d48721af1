// Package parserpool holds the tree-sitter grammar of every registered
// language, process-wide, and guards against duplicate registration. No
// parser instance is kept or reused: each Parse call configures a fresh
// parser with the registered grammar.
package parserpool

import (
	"context"
	"log/slog"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codegraph/internal/apperrors"
)

// SyntaxTree pairs a parsed tree with the source bytes it was parsed from;
// the tree's byte ranges are only meaningful against this exact slice.
type SyntaxTree struct {
	Language string
	Source   []byte
	Tree     *sitter.Tree
}

// Close releases the underlying tree-sitter tree.
func (t *SyntaxTree) Close() {
	if t != nil && t.Tree != nil {
		t.Tree.Close()
	}
}

// Pool holds one *sitter.Language per registered language name and hands out
// freshly-configured *sitter.Parser values for each Parse call, since a
// sitter.Parser is not safe for concurrent reuse across goroutines but a
// sitter.Language is.
type Pool struct {
	mu        sync.RWMutex
	languages map[string]*sitter.Language
}

// New returns an empty pool. Language support is registered explicitly by
// the application root, never auto-discovered.
func New() *Pool {
	return &Pool{languages: make(map[string]*sitter.Language)}
}

// Register associates name with lang. A duplicate registration of the same
// language name is tolerated: whether or not the pointer is identical, it's
// logged at Warn and the first registration wins, since registration
// failures here would take down an entire analysis run over a mistake in
// wiring rather than in source.
func (p *Pool) Register(name string, lang *sitter.Language) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.languages[name]; !ok {
		p.languages[name] = lang
		return
	}
	slog.Warn("parserpool: duplicate language registration ignored", "language", name)
}

// Supports reports whether name has a registered language.
func (p *Pool) Supports(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.languages[name]
	return ok
}

// Languages lists every registered language name.
func (p *Pool) Languages() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.languages))
	for name := range p.languages {
		out = append(out, name)
	}
	return out
}

// Parse parses source as the given language, returning a SyntaxTree. An
// unregistered language fails with ErrUnsupportedLanguage. A parse fault
// (an ERROR or MISSING node anywhere in the tree, or ctx was cancelled)
// fails with a *apperrors.ParseError and no tree is returned.
func (p *Pool) Parse(ctx context.Context, language string, source []byte) (*SyntaxTree, error) {
	p.mu.RLock()
	lang, ok := p.languages[language]
	p.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrUnsupportedLanguage
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &apperrors.ParseError{Language: language, Offset: 0, Message: err.Error()}
	}
	if tree == nil {
		return nil, &apperrors.ParseError{Language: language, Offset: 0, Message: "parser returned no tree"}
	}

	if offset, bad := firstError(tree.RootNode()); bad {
		tree.Close()
		return nil, &apperrors.ParseError{Language: language, Offset: offset, Message: "syntax error"}
	}

	return &SyntaxTree{Language: language, Source: source, Tree: tree}, nil
}

// firstError walks the tree looking for the first ERROR or MISSING node.
// Any such node is treated as a hard ParseFailure; no partial tree is ever
// returned to the caller.
func firstError(n *sitter.Node) (int, bool) {
	if n == nil {
		return 0, false
	}
	if n.IsError() || n.IsMissing() {
		return int(n.StartByte()), true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if off, bad := firstError(n.Child(i)); bad {
			return off, true
		}
	}
	return 0, false
}
