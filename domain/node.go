// Package domain holds the pure data types shared across the analysis
// pipeline: nodes, edges, edge type specs, unknown symbols, and proposed
// equivalences. None of these types know how to parse, store, or infer —
// that belongs to parserpool, graphstore, and inference respectively.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// NodeKind is the closed set of entity kinds a Node may represent.
type NodeKind string

const (
	KindFile      NodeKind = "file"
	KindClass     NodeKind = "class"
	KindInterface NodeKind = "interface"
	KindFunction  NodeKind = "function"
	KindMethod    NodeKind = "method"
	KindVariable  NodeKind = "variable"
	KindModule    NodeKind = "module"
	KindPackage   NodeKind = "package"
	KindUnknown   NodeKind = "unknown"
	KindHeading   NodeKind = "heading"
	KindExternal  NodeKind = "external"
)

// Location pinpoints a span in source text. Zero value means "unknown".
type Location struct {
	Line        int `json:"line,omitempty"`
	Column      int `json:"column,omitempty"`
	StartOffset int `json:"startOffset,omitempty"`
	EndOffset   int `json:"endOffset,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// Metadata is an opaque key/value bag attached to nodes and edges.
type Metadata map[string]any

// Node is a code entity: a file, a declaration, or a synthetic placeholder
// for something external or unresolved.
type Node struct {
	ID         int64    `json:"id"`
	Identifier string   `json:"identifier"`
	Kind       NodeKind `json:"kind"`
	Name       string   `json:"name"`
	SourceFile *string  `json:"sourceFile,omitempty"`
	Language   string   `json:"language"`
	Location   Location `json:"location,omitempty"`
	Metadata   Metadata `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BuildIdentifier constructs the canonical `<project>/<path>#<kind>:<name>`
// node identifier. path may be empty for project-level synthetic nodes
// (external packages), in which case the grammar degrades to
// `<project>/#<kind>:<name>`.
func BuildIdentifier(project, path string, kind NodeKind, name string) string {
	return fmt.Sprintf("%s/%s#%s:%s", project, path, kind, name)
}

// ValidName reports whether name is legal in a node identifier: UTF-8,
// non-empty, and free of the three grammar-reserved characters.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, "#/:")
}
