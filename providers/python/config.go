// Package python is the Python language provider.
package python

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Config implements providers.Provider for Python.
type Config struct{}

func (c *Config) Language() string     { return "python" }
func (c *Config) Aliases() []string    { return []string{"py"} }
func (c *Config) Extensions() []string { return []string{".py"} }
func (c *Config) SitterLanguage() *sitter.Language { return python.GetLanguage() }

// NodeTypesFor maps a declaration kind to Python grammar node types. Method
// and function share function_definition at the grammar level; the
// extractor tells them apart by walking ancestry (see querycatalog's
// PythonQueries.MethodDecls).
func (c *Config) NodeTypesFor(kind string) []string {
	if nodes, ok := aliasMap()[kind]; ok {
		return nodes
	}
	return nil
}

func aliasMap() map[string][]string {
	return map[string][]string{
		"function": {"function_definition"},
		"method":   {"function_definition"},
		"class":    {"class_definition"},
		"variable": {"assignment"},
		"import":   {"import_statement", "import_from_statement"},
	}
}
