// Package markdown is the Markdown/MDX provider. No tree-sitter grammar for
// Markdown exists anywhere in this toolchain's dependency set, so this
// provider parses with goldmark instead and adapts its AST into the same
// typed query results every other provider produces via tree-sitter.
package markdown

import sitter "github.com/smacker/go-tree-sitter"

// Config implements providers.Provider for Markdown and MDX.
type Config struct{}

func (c *Config) Language() string                 { return "markdown" }
func (c *Config) Aliases() []string                { return []string{"md", "mdx"} }
func (c *Config) Extensions() []string              { return []string{".md", ".mdx"} }
func (c *Config) SitterLanguage() *sitter.Language  { return nil }
func (c *Config) NodeTypesFor(kind string) []string { return nil }

// New returns the Markdown language provider.
func New() *Config { return &Config{} }
