package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/codegraph/providers/catalog"
)

func init() {
	catalog.Register(catalog.LanguageInfo{ID: "go", Extensions: []string{".go"}})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestScanTargetsFindsRecognizedExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "README.md", "# hi\n")

	s := New(Config{NoGitignore: true})
	files, err := s.ScanTargets(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "main.go", filepath.Base(files[0]))
}

func TestScanTargetsSkipsVendorAndHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.go", "package main\n")
	writeFile(t, dir, "vendor/dep.go", "package dep\n")
	writeFile(t, dir, ".git/objects/pretend.go", "package git\n")

	s := New(Config{NoGitignore: true})
	files, err := s.ScanTargets(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "keep.go", filepath.Base(files[0]))
}

func TestScanTargetsExcludeGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "main_test.go", "package main\n")

	s := New(Config{NoGitignore: true, ExcludeGlobs: []string{"*_test.go"}})
	files, err := s.ScanTargets(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "main.go", filepath.Base(files[0]))
}

func TestScanTargetsMaxBytes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.go", "package main\n// padding padding padding\n")

	s := New(Config{NoGitignore: true, MaxBytes: 4})
	files, err := s.ScanTargets(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Empty(t, files)
}
