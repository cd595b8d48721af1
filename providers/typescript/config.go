// Package typescript is the TypeScript/TSX language provider.
package typescript

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Config implements providers.Provider for TypeScript and TSX.
type Config struct{}

func (c *Config) Language() string           { return "typescript" }
func (c *Config) Aliases() []string          { return []string{"ts", "tsx"} }
func (c *Config) Extensions() []string       { return []string{".ts", ".tsx"} }
func (c *Config) SitterLanguage() *sitter.Language { return typescript.GetLanguage() }

// NodeTypesFor maps a declaration kind to the grammar node types that
// realize it, covering the kinds the extractor actually classifies.
func (c *Config) NodeTypesFor(kind string) []string {
	if nodes, ok := aliasMap()[kind]; ok {
		return nodes
	}
	return nil
}

func aliasMap() map[string][]string {
	return map[string][]string{
		"function":  {"function_declaration"},
		"method":    {"method_definition", "method_signature"},
		"class":     {"class_declaration"},
		"interface": {"interface_declaration"},
		"variable":  {"variable_declarator"},
		"import":    {"import_statement"},
		"export":    {"export_statement"},
	}
}

// IsExported treats PascalCase top-level bindings as the public surface,
// since TypeScript's real visibility (the `export` keyword) is already
// captured by the exports query. Nothing in the module calls it; the
// resolver's semantic_match rule does not use it.
func IsExported(name string) bool {
	if len(name) == 0 {
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}
