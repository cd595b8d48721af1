package extractor

import "strings"

// builtins is a small fixed table of standard-library module names per
// language, just enough to distinguish "imports_builtin" from
// "imports_package" without depending on a full compiler toolchain.
var builtins = map[string]map[string]bool{
	"go": setOf(
		"fmt", "os", "strings", "strconv", "errors", "io", "bytes", "time",
		"context", "sync", "net", "net/http", "encoding/json", "path",
		"path/filepath", "sort", "regexp", "bufio", "log", "math", "unicode",
	),
	"typescript": setOf(
		"fs", "path", "crypto", "http", "https", "os", "util", "events",
		"stream", "child_process", "url", "assert", "buffer",
	),
	"javascript": setOf(
		"fs", "path", "crypto", "http", "https", "os", "util", "events",
		"stream", "child_process", "url", "assert", "buffer",
	),
	"python": setOf(
		"sys", "os", "re", "json", "typing", "collections", "itertools",
		"functools", "math", "datetime", "pathlib", "io", "logging",
		"asyncio", "subprocess",
	),
	"java": setOf(
		"java.lang", "java.util", "java.io", "java.nio", "java.time",
		"java.net", "java.math", "java.text",
	),
}

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// ImportKind is the classifier's verdict for one import source.
type ImportKind string

const (
	ImportLocal   ImportKind = "local"
	ImportPackage ImportKind = "package"
	ImportBuiltin ImportKind = "builtin"
)

// classifyImport implements the source classification: local if it starts
// with "./", "../", or is a repository-rooted path (a leading "/"); package
// otherwise. A package import resolving to a known builtin module for the
// language downgrades to ImportBuiltin. The canonical package name is the
// first path segment, or the first two when the first begins with "@"
// (an npm-style scoped package).
func classifyImport(language, source string) (kind ImportKind, canonicalName string) {
	if isRelative(source) || strings.HasPrefix(source, "/") {
		return ImportLocal, source
	}

	canonicalName = packageName(source)
	if builtins[language][canonicalName] || builtins[language][source] {
		return ImportBuiltin, canonicalName
	}
	return ImportPackage, canonicalName
}

func isRelative(source string) bool {
	return strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") || source == "." || source == ".."
}

// packageName returns source's canonical library name: the first slash- or
// dot-delimited segment, or the first two segments when the first begins
// with "@" (a scoped npm package).
func packageName(source string) string {
	sep := "/"
	if !strings.Contains(source, "/") && strings.Contains(source, ".") {
		sep = "."
	}
	parts := strings.Split(source, sep)
	if len(parts) == 0 {
		return source
	}
	if strings.HasPrefix(parts[0], "@") && len(parts) > 1 {
		return parts[0] + sep + parts[1]
	}
	return parts[0]
}
