package extractor

import (
	"context"
	"testing"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/parserpool"
	"github.com/oxhq/codegraph/providers"
	"github.com/oxhq/codegraph/providers/golang"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	pool := parserpool.New()
	goProvider := golang.New()
	pool.Register(goProvider.Language(), goProvider.SitterLanguage())

	registry := providers.NewRegistry()
	registry.Register(goProvider)

	return New(pool, registry, Config{MaxFileBytes: 2 << 20, Project: "proj"})
}

const goSource = `package sample

import (
	"fmt"
	"proj/internal/util"
)

func Greet(name string) string {
	return fmt.Sprintf("hello %s", util.Clean(name))
}
`

func TestExtractGoFileProducesFileAndDeclNodes(t *testing.T) {
	e := newTestExtractor(t)
	res, err := e.Extract(context.Background(), "sample.go", []byte(goSource))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.File.Kind != domain.KindFile || res.File.Name != "sample.go" {
		t.Fatalf("unexpected file node: %+v", res.File)
	}
	found := false
	for _, d := range res.Decls {
		if d.Kind == domain.KindFunction && d.Name == "Greet" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a function decl named Greet, got %+v", res.Decls)
	}
}

func TestExtractClassifiesImports(t *testing.T) {
	e := newTestExtractor(t)
	res, err := e.Extract(context.Background(), "sample.go", []byte(goSource))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(res.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d: %+v", len(res.Imports), res.Imports)
	}
	byTarget := map[string]ImportEdge{}
	for _, imp := range res.Imports {
		byTarget[imp.Source] = imp
	}
	fmtImp, ok := byTarget["fmt"]
	if !ok || fmtImp.Kind != ImportBuiltin || fmtImp.EdgeType != "imports_builtin" {
		t.Fatalf("expected fmt classified as builtin, got %+v", fmtImp)
	}
	utilImp, ok := byTarget["proj/internal/util"]
	if !ok || utilImp.Kind != ImportPackage || utilImp.EdgeType != "imports_package" {
		t.Fatalf("expected proj/internal/util classified as package, got %+v", utilImp)
	}
}

func TestExtractOversizeFile(t *testing.T) {
	e := newTestExtractor(t)
	e.cfg.MaxFileBytes = 4
	_, err := e.Extract(context.Background(), "sample.go", []byte(goSource))
	if err == nil {
		t.Fatal("expected OversizeFile error")
	}
}

func TestExtractUnsupportedLanguage(t *testing.T) {
	e := newTestExtractor(t)
	_, err := e.Extract(context.Background(), "sample.rb", []byte("puts 1"))
	if err == nil {
		t.Fatal("expected UnsupportedLanguage error for .rb")
	}
}

func TestClassifyImportScopedPackage(t *testing.T) {
	kind, name := classifyImport("typescript", "@scope/pkg/sub")
	if kind != ImportPackage || name != "@scope/pkg" {
		t.Fatalf("expected scoped package name @scope/pkg, got kind=%v name=%q", kind, name)
	}
}

func TestClassifyImportLocal(t *testing.T) {
	kind, _ := classifyImport("typescript", "./util")
	if kind != ImportLocal {
		t.Fatalf("expected local import, got %v", kind)
	}
}
