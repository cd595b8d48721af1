// Package golang is the Go language provider: it tells the parser pool
// which tree-sitter grammar to load and tells the extractor which grammar
// node types back each declaration kind.
package golang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// Config implements providers.Provider for Go.
type Config struct{}

// Language identifier used as the parser pool / edge type registry key.
func (c *Config) Language() string { return "go" }

// Aliases this provider also answers to.
func (c *Config) Aliases() []string { return []string{"golang"} }

// Extensions recognized as Go source.
func (c *Config) Extensions() []string { return []string{".go"} }

// SitterLanguage returns the tree-sitter grammar for Go.
func (c *Config) SitterLanguage() *sitter.Language { return golang.GetLanguage() }

// NodeTypesFor maps a declaration kind to the grammar node types that
// realize it, driving the extractor's declaration pass.
func (c *Config) NodeTypesFor(kind string) []string {
	if nodes, ok := aliasMap()[kind]; ok {
		return nodes
	}
	return nil
}

func aliasMap() map[string][]string {
	return map[string][]string{
		"function":  {"function_declaration"},
		"method":    {"method_declaration"},
		"class":     {"type_spec"},
		"interface": {"type_spec"},
		"variable":  {"var_spec", "const_spec", "short_var_declaration"},
		"import":    {"import_spec"},
	}
}

// IsExported reports whether name would be visible outside its package, the
// closest Go analogue of "export" used by the exports query.
func IsExported(name string) bool {
	if len(name) == 0 {
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}
