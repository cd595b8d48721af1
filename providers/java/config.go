// Package java is the Java language provider, grounded on the tree-sitter
// grammar viant/linager's analyzer already wires into this toolchain.
package java

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Config implements providers.Provider for Java.
type Config struct{}

func (c *Config) Language() string     { return "java" }
func (c *Config) Aliases() []string    { return nil }
func (c *Config) Extensions() []string { return []string{".java"} }
func (c *Config) SitterLanguage() *sitter.Language { return java.GetLanguage() }

func (c *Config) NodeTypesFor(kind string) []string {
	if nodes, ok := aliasMap()[kind]; ok {
		return nodes
	}
	return nil
}

func aliasMap() map[string][]string {
	return map[string][]string{
		"class":     {"class_declaration"},
		"interface": {"interface_declaration"},
		"method":    {"method_declaration"},
		"variable":  {"variable_declarator"},
		"import":    {"import_declaration"},
	}
}

// New returns the Java language provider.
func New() *Config { return &Config{} }
