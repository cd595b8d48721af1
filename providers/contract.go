// Package providers defines the contract every language provider
// implements, plus a registry that resolves a provider by language name or
// file extension. This interface carries no mutation methods (no
// Query/Transform/Validate rewrite surface) — this pipeline only ever reads
// source, never rewrites it.
package providers

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codegraph/providers/catalog"
)

// Provider is the metadata a language plugs into the pipeline with.
type Provider interface {
	// Language is the canonical name used as the parserpool key and as the
	// Node.Language tag.
	Language() string
	// Aliases are additional names GetForIdentifier accepts.
	Aliases() []string
	// Extensions lists the file extensions (with leading dot) recognized
	// as this language.
	Extensions() []string
	// SitterLanguage returns the tree-sitter grammar to register with the
	// parser pool, or nil for a provider that parses with something other
	// than tree-sitter (markdown, via goldmark).
	SitterLanguage() *sitter.Language
	// NodeTypesFor maps a declaration kind ("function", "class",
	// "interface", "method", "variable", "import", "export") to the
	// grammar node type names that realize it in this language. A nil
	// result means the kind doesn't exist in this language's grammar.
	NodeTypesFor(kind string) []string
}

// Registry resolves a Provider by language name, alias, or file extension.
type Registry struct {
	providers map[string]Provider // canonical name -> provider
	aliases   map[string]string   // alias -> canonical name
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		aliases:   make(map[string]string),
	}
}

// Register adds p under its canonical language name and every alias, and
// mirrors its extension set into the package-level catalog so extension
// lookups that don't need the full Provider (e.g. the scanner) stay cheap.
func (r *Registry) Register(p Provider) {
	r.providers[p.Language()] = p
	for _, alias := range p.Aliases() {
		r.aliases[alias] = p.Language()
	}
	catalog.Register(catalog.LanguageInfo{ID: p.Language(), Extensions: p.Extensions()})
}

// Get retrieves a provider by canonical language name or alias.
func (r *Registry) Get(identifier string) (Provider, bool) {
	if p, ok := r.providers[identifier]; ok {
		return p, true
	}
	if canonical, ok := r.aliases[identifier]; ok {
		p, ok := r.providers[canonical]
		return p, ok
	}
	return nil, false
}

// GetForExtension retrieves a provider via the shared catalog's extension
// index, then resolves it through this registry's provider map.
func (r *Registry) GetForExtension(ext string) (Provider, bool) {
	info, ok := catalog.LookupByExtension(ext)
	if !ok {
		return nil, false
	}
	return r.Get(info.ID)
}

// List returns every registered provider.
func (r *Registry) List() []Provider {
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	return out
}

// Languages returns every registered canonical language name.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.providers))
	for lang := range r.providers {
		out = append(out, lang)
	}
	return out
}
