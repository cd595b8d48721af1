// Package javascript is the JavaScript/JSX language provider, also used for
// .mjs and .cjs files since the grammar is identical.
package javascript

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Config implements providers.Provider for JavaScript.
type Config struct{}

func (c *Config) Language() string     { return "javascript" }
func (c *Config) Aliases() []string    { return []string{"js", "jsx"} }
func (c *Config) Extensions() []string { return []string{".js", ".jsx", ".mjs", ".cjs"} }
func (c *Config) SitterLanguage() *sitter.Language { return javascript.GetLanguage() }

// NodeTypesFor mirrors the TypeScript provider's map, omitting interface and
// method_signature since the plain JS grammar has neither.
func (c *Config) NodeTypesFor(kind string) []string {
	if nodes, ok := aliasMap()[kind]; ok {
		return nodes
	}
	return nil
}

func aliasMap() map[string][]string {
	return map[string][]string{
		"function": {"function_declaration"},
		"method":   {"method_definition"},
		"class":    {"class_declaration"},
		"variable": {"variable_declarator"},
		"import":   {"import_statement"},
		"export":   {"export_statement"},
	}
}
