// Command codegraph scans a repository, extracts its declarations and
// imports into a graph store, resolves unknown symbols, and answers
// queries over the result. Grounded on the demo runner's cobra
// root-plus-subcommand layout, generalized from scenario/list subcommands
// into scan/query/resolve/stats.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/codegraph/internal/app"
	"github.com/oxhq/codegraph/internal/appconfig"
	"github.com/oxhq/codegraph/queryfrontend"
	"github.com/oxhq/codegraph/scanner"
)

func main() {
	var dbDSN, project string

	root := &cobra.Command{
		Use:   "codegraph",
		Short: "Multi-language source dependency and symbol graph",
	}
	root.PersistentFlags().StringVar(&dbDSN, "db", "", "graph store DSN (defaults to CODEGRAPH_DB_DSN or .codegraph/graph.db)")
	root.PersistentFlags().StringVar(&project, "project", "codegraph", "project name node identifiers are built under")

	buildApp := func() (*app.App, error) {
		cfg := appconfig.Load()
		if dbDSN != "" {
			cfg.DBDSN = dbDSN
		}
		return app.New(cfg, project)
	}

	root.AddCommand(
		newScanCmd(buildApp),
		newQueryCmd(buildApp),
		newResolveCmd(buildApp),
		newStatsCmd(buildApp),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScanCmd(buildApp func() (*app.App, error)) *cobra.Command {
	var (
		includeGlobs, excludeGlobs []string
		noGitignore                bool
	)
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan and extract files into the graph store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			sc := a.Scanner
			if len(includeGlobs) > 0 || len(excludeGlobs) > 0 || noGitignore {
				sc = scanner.New(scanner.Config{
					MaxBytes:     a.Config.MaxFileBytes,
					IncludeGlobs: includeGlobs,
					ExcludeGlobs: excludeGlobs,
					NoGitignore:  noGitignore,
				})
			}
			files, err := sc.ScanTargets(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			if len(files) == 0 {
				fmt.Println("no files matched")
				return nil
			}

			sources := make(map[string][]byte, len(files))
			for _, f := range files {
				content, err := os.ReadFile(f)
				if err != nil {
					fmt.Fprintf(os.Stderr, "skipping %s: %v\n", f, err)
					continue
				}
				sources[f] = content
			}

			batch := a.Orchestrator.ProcessBatch(cmd.Context(), sources)
			fmt.Printf("processed %d files: %d succeeded, %d failed\n", len(batch.Files), batch.Succeeded, batch.Failed)
			for _, r := range batch.Files {
				if r.Err != nil {
					fmt.Printf("  FAIL %s: %v\n", r.Path, r.Err)
					continue
				}
				fmt.Printf("  ok   %s: %d nodes, %d edges, %d unknown refs\n", r.Path, r.Nodes, r.Edges, r.Unknowns)
				for _, w := range r.Warnings {
					fmt.Printf("       warn: %s\n", w)
				}
			}
			if batch.Failed > 0 {
				return fmt.Errorf("scan: %d of %d files failed", batch.Failed, len(batch.Files))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&includeGlobs, "include", nil, "include glob patterns")
	cmd.Flags().StringSliceVar(&excludeGlobs, "exclude", nil, "exclude glob patterns")
	cmd.Flags().BoolVar(&noGitignore, "no-gitignore", false, "disable gitignore filtering")
	return cmd
}

func newQueryCmd(buildApp func() (*app.App, error)) *cobra.Command {
	var (
		target, kind, language, sourceFile, nameLike string
		limit, offset                                int
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query nodes or edges in the graph store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			q := queryfrontend.Query{Target: queryfrontend.TargetNodes, Limit: limit, Offset: offset}
			if target == "edges" {
				q.Target = queryfrontend.TargetEdges
			}

			var conds []queryfrontend.Where
			if kind != "" {
				conds = append(conds, queryfrontend.FieldEq("kind", kind))
			}
			if language != "" {
				conds = append(conds, queryfrontend.FieldEq("language", language))
			}
			if sourceFile != "" {
				conds = append(conds, queryfrontend.FieldEq("sourceFile", sourceFile))
			}
			if nameLike != "" {
				conds = append(conds, queryfrontend.FieldLike("name", nameLike))
			}
			if len(conds) > 0 {
				w := queryfrontend.And(conds...)
				q.Where = &w
			}

			res, err := a.QueryFront.Execute(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}
			for _, row := range res.Rows {
				fmt.Printf("%+v\n", row)
			}
			fmt.Printf("%d row(s)\n", len(res.Rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "nodes", "nodes or edges")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by node kind")
	cmd.Flags().StringVar(&language, "language", "", "filter by language")
	cmd.Flags().StringVar(&sourceFile, "source-file", "", "filter by source file")
	cmd.Flags().StringVar(&nameLike, "name-like", "", "LIKE pattern against name, e.g. 'Foo%'")
	cmd.Flags().IntVar(&limit, "limit", 50, "max rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func newResolveCmd(buildApp func() (*app.App, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Propose equivalences for unresolved unknown symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			unknowns, err := a.Resolver.SearchUnknowns(cmd.Context(), "", true)
			if err != nil {
				return fmt.Errorf("search unknowns: %w", err)
			}
			if len(unknowns) == 0 {
				fmt.Println("no unresolved unknown symbols")
				return nil
			}

			results, err := a.Resolver.BatchInfer(cmd.Context(), unknowns)
			if err != nil {
				return fmt.Errorf("batch infer: %w", err)
			}
			proposed := 0
			for _, r := range results {
				if r.Created == nil {
					continue
				}
				proposed++
				fmt.Printf("proposed: %q (%s) -> known node %d via %s (confidence %.2f)\n",
					r.Unknown.Name, r.Unknown.SourceFile, r.Created.KnownID, r.Created.Rule, r.Created.Confidence)
			}
			fmt.Printf("%d/%d unknowns matched above floor\n", proposed, len(results))
			return nil
		},
	}
	return cmd
}

func newStatsCmd(buildApp func() (*app.App, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print graph store and resolver statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.Store.Statistics(cmd.Context())
			if err != nil {
				return fmt.Errorf("statistics: %w", err)
			}
			fmt.Printf("nodes: %d\nedges: %d (derived: %d)\nunknowns: %d\nvalidated equivalences: %d\n",
				st.TotalNodes, st.TotalEdges, st.DerivedEdges, st.TotalUnknowns, st.ValidatedRelations)

			for _, t := range a.EdgeTypes.TransitiveTypes() {
				fmt.Printf("transitive edge type: %s\n", t)
			}
			return nil
		},
	}
	return cmd
}
