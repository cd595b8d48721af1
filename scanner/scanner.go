// Package scanner walks a set of targets (files and directories) and
// returns the files worth extracting: filtered by gitignore, include/
// exclude glob patterns, size limits, and the set of extensions any
// registered language provider recognizes.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/oxhq/codegraph/providers/catalog"
)

// skipDirs are directories never worth descending into regardless of
// gitignore contents.
var skipDirs = []string{".git", "vendor", "node_modules", "dist", "build"}

// Scanner walks targets and filters files down to ones worth extracting.
type Scanner struct {
	maxBytes       int64
	followSymlinks bool
	includeGlobs   []string
	excludeGlobs   []string
	noGitignore    bool
	gitignore      *ignore.GitIgnore
}

// Config holds scanner configuration options.
type Config struct {
	MaxBytes       int64
	FollowSymlinks bool
	IncludeGlobs   []string
	ExcludeGlobs   []string
	NoGitignore    bool
}

// New creates a Scanner, loading .gitignore files from the current
// directory up to the filesystem root unless cfg.NoGitignore is set.
func New(cfg Config) *Scanner {
	s := &Scanner{
		maxBytes:       cfg.MaxBytes,
		followSymlinks: cfg.FollowSymlinks,
		includeGlobs:   cfg.IncludeGlobs,
		excludeGlobs:   cfg.ExcludeGlobs,
		noGitignore:    cfg.NoGitignore,
	}
	if !cfg.NoGitignore {
		s.loadGitignore()
	}
	return s
}

func (s *Scanner) loadGitignore() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	var gitignoreFiles []string
	dir := cwd
	for {
		p := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(p); err == nil {
			gitignoreFiles = append(gitignoreFiles, p)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if len(gitignoreFiles) == 0 {
		return
	}

	slices.Reverse(gitignoreFiles) // root-first so a closer .gitignore wins ties

	var extra []string
	for _, p := range gitignoreFiles[1:] {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		extra = append(extra, strings.Split(string(data), "\n")...)
	}
	gi, err := ignore.CompileIgnoreFileAndLines(gitignoreFiles[0], extra...)
	if err == nil {
		s.gitignore = gi
	}
}

// ScanTargets walks every target (file or directory), returning the
// deduplicated union of files worth extracting. An empty targets list
// defaults to the current working directory.
func (s *Scanner) ScanTargets(ctx context.Context, targets []string) ([]string, error) {
	if len(targets) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("scanner: getting current directory: %w", err)
		}
		targets = []string{cwd}
	}

	var all []string
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		files, err := s.scanTarget(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("scanner: scanning target %s: %w", target, err)
		}
		all = append(all, files...)
	}
	return dedupe(all), nil
}

func (s *Scanner) scanTarget(ctx context.Context, target string) ([]string, error) {
	info, err := os.Lstat(target)
	if err != nil {
		return nil, fmt.Errorf("accessing target %s: %w", target, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !s.followSymlinks {
			return nil, nil
		}
		resolved, err := filepath.EvalSymlinks(target)
		if err != nil {
			return nil, fmt.Errorf("resolving symlink %s: %w", target, err)
		}
		return s.scanTarget(ctx, resolved)
	}

	if info.Mode().IsRegular() {
		if s.shouldProcessFile(target, info) {
			return []string{target}, nil
		}
		return nil, nil
	}

	if info.IsDir() {
		return s.scanDirectory(ctx, target)
	}
	return nil, nil
}

func (s *Scanner) scanDirectory(ctx context.Context, dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(os.DirFS(dir), ".", func(relPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fullPath := filepath.Join(dir, relPath)

		if d.IsDir() {
			if relPath != "." && s.shouldSkipDirectory(relPath) {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("getting file info for %s: %w", fullPath, err)
			}
			if s.shouldProcessFile(fullPath, info) {
				files = append(files, fullPath)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", dir, err)
	}
	return files, nil
}

func (s *Scanner) shouldProcessFile(path string, info os.FileInfo) bool {
	if s.matchesGitignore(path) {
		return false
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return false
	}
	if _, ok := catalog.LookupByExtension(filepath.Ext(path)); !ok {
		return false
	}

	basename := filepath.Base(path)
	if len(s.includeGlobs) > 0 {
		matched := false
		for _, pattern := range s.includeGlobs {
			if ok, _ := doublestar.Match(pattern, basename); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, pattern := range s.excludeGlobs {
		if ok, _ := doublestar.Match(pattern, basename); ok {
			return false
		}
	}
	return true
}

func (s *Scanner) shouldSkipDirectory(path string) bool {
	if s.matchesGitignore(path) {
		return true
	}
	dirname := filepath.Base(path)
	if slices.Contains(skipDirs, dirname) {
		return true
	}
	return strings.HasPrefix(dirname, ".")
}

func (s *Scanner) matchesGitignore(path string) bool {
	if s.gitignore == nil {
		return false
	}
	relPath, err := filepath.Rel(".", path)
	if err != nil {
		return false
	}
	return s.gitignore.MatchesPath(relPath)
}

func dedupe(files []string) []string {
	seen := make(map[string]bool, len(files))
	result := make([]string, 0, len(files))
	for _, f := range files {
		if !seen[f] {
			seen[f] = true
			result = append(result, f)
		}
	}
	return result
}
