// Package report provides the report command.
package report

import (
	"fmt"
	"io"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/agentstation/halloffame/internal/appcontext"
	"github.com/agentstation/halloffame/internal/cmd/output"
	"github.com/agentstation/halloffame/internal/persistence"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
)

// Flags holds the report command flags.
type Flags struct {
	Cache   string
	Store   string
	Filter  string
	Invalid bool
}

// NewCommand creates the report command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	paths := app.Paths()
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "report [id...]",
		GroupID: "core",
		Short:   "Show cached records and how they were matched",
		Long: `Report prints the cached records.

With record ids, the full report of each record is printed: every field
with its provenance state, the metadata and the log of the last run.
Without ids, the records are listed.`,
		Example: `  halloffame report
  halloffame report --filter trims
  halloffame report kikugie/elytra-trims`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.Cache, "cache", paths.Cache, "record cache file")
	cmd.Flags().StringVar(&flags.Store, "store", paths.Store, "cache store: yaml, sqlite")
	cmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "fuzzy filter on record ids and names")
	cmd.Flags().BoolVar(&flags.Invalid, "invalid", false, "list only invalid records")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags, ids []string) error {
	kind, err := persistence.ParseKind(flags.Store)
	if err != nil {
		return err
	}
	store, err := persistence.Open(kind, flags.Cache)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(ids) > 0 {
		return printReports(w, projects.NewSet(records...), ids)
	}

	if flags.Invalid {
		records = invalidOnly(records)
	}
	if flags.Filter != "" {
		records = Filter(records, flags.Filter)
	}
	app.Logger().Debug().Int("records", len(records)).Msg("Listing records")

	format := output.DetectFormat(app.OutputFormat())
	if format.IsTable() {
		return output.NewFormatter(format).Format(w, output.RecordsToTableData(records, format == output.FormatWide))
	}
	return output.NewFormatter(format).Format(w, projects.Snapshots(records))
}

func printReports(w io.Writer, set *projects.Set, ids []string) error {
	for i, id := range ids {
		rec, ok := set.Get(id)
		if !ok {
			return errors.NewNotFoundError("record", id)
		}
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, rec.Report()); err != nil {
			return err
		}
	}
	return nil
}

func invalidOnly(records []*projects.Record) []*projects.Record {
	var out []*projects.Record
	for _, rec := range records {
		if !rec.Valid() {
			out = append(out, rec)
		}
	}
	return out
}

// searchable matches records by id and name.
type searchable []*projects.Record

func (s searchable) String(i int) string {
	return s[i].ID + " " + s[i].Name.String()
}

func (s searchable) Len() int { return len(s) }

// Filter returns the records fuzzily matching pattern, best match first.
func Filter(records []*projects.Record, pattern string) []*projects.Record {
	matches := fuzzy.FindFrom(pattern, searchable(records))
	out := make([]*projects.Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, records[m.Index])
	}
	return out
}
