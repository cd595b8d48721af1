// Package app is the explicit constructor-wiring root: it builds the
// parser pool, provider registry, edge type registry, graph store,
// resolver, inference engine, extractor, and orchestrator by hand, the way
// cmd/morfx's main wires its own registry/provider graph. There is no
// ambient DI container; parserpool and edgetypes are the only two
// process-wide singletons, and even those are constructed here rather than
// reached for as package-level globals.
package app

import (
	"fmt"
	"time"

	"github.com/oxhq/codegraph/domain"
	"github.com/oxhq/codegraph/edgetypes"
	"github.com/oxhq/codegraph/extractor"
	"github.com/oxhq/codegraph/graphstore"
	"github.com/oxhq/codegraph/inference"
	"github.com/oxhq/codegraph/internal/appconfig"
	"github.com/oxhq/codegraph/orchestrator"
	"github.com/oxhq/codegraph/parserpool"
	"github.com/oxhq/codegraph/providers"
	"github.com/oxhq/codegraph/providers/golang"
	"github.com/oxhq/codegraph/providers/java"
	"github.com/oxhq/codegraph/providers/javascript"
	"github.com/oxhq/codegraph/providers/markdown"
	"github.com/oxhq/codegraph/providers/python"
	"github.com/oxhq/codegraph/providers/typescript"
	"github.com/oxhq/codegraph/queryfrontend"
	"github.com/oxhq/codegraph/resolver"
	"github.com/oxhq/codegraph/scanner"
)

// App holds every constructed component a CLI command might need.
type App struct {
	Config       appconfig.Config
	Store        *graphstore.Store
	Pool         *parserpool.Pool
	Providers    *providers.Registry
	EdgeTypes    *edgetypes.Registry
	Extractor    *extractor.Extractor
	Resolver     *resolver.Resolver
	Inference    *inference.Engine
	Orchestrator *orchestrator.Orchestrator
	QueryFront   *queryfrontend.Frontend
	Scanner      *scanner.Scanner
}

// New wires every component against cfg. project names the repository
// root node identifiers are built under (typically the repo's module
// path or directory name).
func New(cfg appconfig.Config, project string) (*App, error) {
	store, err := graphstore.Open(cfg.DBDSN, false)
	if err != nil {
		return nil, fmt.Errorf("app: open graph store: %w", err)
	}

	pool := parserpool.New()
	registry := providers.NewRegistry()
	for _, p := range []providers.Provider{
		golang.New(), typescript.New(), javascript.New(), python.New(), java.New(), markdown.New(),
	} {
		registry.Register(p)
		if lang := p.SitterLanguage(); lang != nil {
			pool.Register(p.Language(), lang)
		}
	}

	edgeRegistry := edgetypes.New()
	if err := registerDefaultEdgeTypes(edgeRegistry); err != nil {
		return nil, fmt.Errorf("app: register edge types: %w", err)
	}

	ex := extractor.New(pool, registry, extractor.Config{MaxFileBytes: cfg.MaxFileBytes, Project: project})
	res := resolver.New(store, 0.5)
	inf := inference.New(store, edgeRegistry, time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.CacheMaxEntries)
	orch := orchestrator.New(ex, store, res, project, cfg.Workers)
	qf := queryfrontend.New(store)
	scan := scanner.New(scanner.Config{MaxBytes: cfg.MaxFileBytes})

	return &App{
		Config:       cfg,
		Store:        store,
		Pool:         pool,
		Providers:    registry,
		EdgeTypes:    edgeRegistry,
		Extractor:    ex,
		Resolver:     res,
		Inference:    inf,
		Orchestrator: orch,
		QueryFront:   qf,
		Scanner:      scan,
	}, nil
}

// registerDefaultEdgeTypes installs the fixed edge type vocabulary every
// codegraph install shares: a transitive dependency root, three import
// specializations of it and a re-export specialization, two plain
// type-hierarchy relations (extends, implements), the hierarchical
// containment relation and its non-inheritable inverse (contains,
// defines), and three inheritable reference relations.
func registerDefaultEdgeTypes(r *edgetypes.Registry) error {
	specs := []domain.EdgeTypeSpec{
		{Type: "depends_on", IsTransitive: true, IsDirected: true, Priority: 0},
		{Type: "imports_file", Parent: "depends_on", IsDirected: true, Priority: 1},
		{Type: "imports_package", Parent: "depends_on", IsDirected: true, Priority: 1},
		{Type: "imports_builtin", Parent: "depends_on", IsDirected: true, Priority: 1},
		{Type: "re_exports", Parent: "depends_on", IsDirected: true, Priority: 1},

		{Type: "extends", IsDirected: true, Priority: 2},
		{Type: "implements", IsDirected: true, Priority: 2},

		{Type: "contains", IsHierarchical: true, IsDirected: true, Priority: 0},
		{Type: "defines", IsDirected: true, Priority: 0},

		{Type: "renders", IsInheritable: true, IsDirected: true, Priority: 3},
		{Type: "calls", IsInheritable: true, IsDirected: true, Priority: 3},
		{Type: "references", IsInheritable: true, IsDirected: true, Priority: 3},
	}
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	return a.Store.Close()
}
