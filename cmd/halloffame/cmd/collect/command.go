// Package collect provides the collect command.
package collect

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/halloffame"
	"github.com/agentstation/halloffame/internal/appcontext"
	"github.com/agentstation/halloffame/internal/cmd/output"
	"github.com/agentstation/halloffame/internal/persistence"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/reconciler"
)

// Flags holds the collect command flags.
type Flags struct {
	Cache    string
	Store    string
	Search   string
	Projects string
	DryRun   bool
}

// NewCommand creates the collect command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	paths := app.Paths()
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "collect",
		GroupID: "core",
		Short:   "Discover and match projects, updating the cache",
		Long: `Collect runs one collection pass.

The cache and the overrides from the search configuration are reconciled
with GitHub code search, Modrinth and CurseForge. The updated records are
saved back to the cache and the canonical projects are written to the
projects file.`,
		Example: `  halloffame collect
  halloffame collect --store sqlite --cache cache.db
  halloffame collect --dry-run -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Cache, "cache", paths.Cache, "record cache file")
	cmd.Flags().StringVar(&flags.Store, "store", paths.Store, "cache store: yaml, sqlite")
	cmd.Flags().StringVar(&flags.Search, "search", paths.Search, "search configuration with repository requirements and overrides")
	cmd.Flags().StringVar(&flags.Projects, "projects", paths.Projects, "canonical projects output file (.json or .yaml)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "do not write the cache or the projects file")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	ctx := cmd.Context()
	logger := app.Logger()

	kind, err := persistence.ParseKind(flags.Store)
	if err != nil {
		return err
	}

	search, err := persistence.LoadSearchConfig(flags.Search)
	if err != nil {
		return err
	}

	store, err := persistence.Open(kind, flags.Cache)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cache, err := store.Load(ctx)
	if err != nil {
		return err
	}
	logger.Info().
		Int("cached", len(cache)).
		Int("overrides", len(search.Projects)).
		Str("cache", flags.Cache).
		Msg("Loaded cache")

	collector, err := app.Collector(
		halloffame.WithRequirements(search.Repositories),
		halloffame.WithOverrides(search.Overrides()),
	)
	if err != nil {
		return err
	}
	collector.OnRecordAdded(func(rec *projects.Record) {
		logger.Info().Str("record", rec.ID).Msg("New project discovered")
	})
	collector.OnRecordInvalidated(func(rec *projects.Record) {
		logger.Info().Str("record", rec.ID).Msg("Project invalidated")
	})

	result, err := collector.Collect(ctx, cache)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		logger.Warn().Err(e).Msg("Recovered source error")
	}

	if !flags.DryRun {
		if err := store.Save(ctx, result.Records); err != nil {
			return err
		}
		if err := persistence.SaveProjects(flags.Projects, result.Projects); err != nil {
			return err
		}
		logger.Info().
			Str("cache", flags.Cache).
			Str("projects", flags.Projects).
			Msg("Saved results")
	}

	return printResult(cmd, app, result)
}

func printResult(cmd *cobra.Command, app appcontext.Interface, result *reconciler.Result) error {
	format := output.DetectFormat(app.OutputFormat())
	w := cmd.OutOrStdout()

	if !format.IsTable() {
		return output.NewFormatter(format).Format(w, result.Metadata)
	}

	if err := output.NewFormatter(format).Format(w, output.SummaryToTableData(result)); err != nil {
		return err
	}
	if format == output.FormatWide {
		if err := output.NewFormatter(format).Format(w, output.ProjectsToTableData(result.Projects, true)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, result.Summary())
	return err
}
