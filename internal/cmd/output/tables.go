package output

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/provenance"
	"github.com/agentstation/halloffame/pkg/reconciler"
	"github.com/agentstation/halloffame/pkg/types"
)

// RecordsToTableData converts records to table format. The wide layout
// adds the registry URLs.
func RecordsToTableData(records []*projects.Record, wide bool) Data {
	headers := []string{"ID", "Name", "State", "Modrinth", "CurseForge", "Valid"}
	if wide {
		headers = append(headers, "Modrinth URL", "CurseForge URL")
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{
			rec.ID,
			dash(rec.Name.String()),
			StateLabel(rec.Name),
			StateLabel(rec.Modrinth),
			StateLabel(rec.CurseForge),
			check(rec.Valid()),
		}
		if wide {
			row = append(row, dash(rec.Modrinth.String()), dash(rec.CurseForge.String()))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// ProjectsToTableData converts a canonical project set to table format,
// most downloaded first.
func ProjectsToTableData(set map[string]*projects.Info, wide bool) Data {
	headers := []string{"#", "Project", "Downloads", "Updated", "Sources"}
	align := []Align{AlignRight, AlignLeft, AlignRight, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "ID", "Description")
		align = append(align, AlignLeft, AlignLeft)
	}

	ranked := projects.Rank(set)
	rows := make([][]string, 0, len(ranked))
	for i, r := range ranked {
		row := []string{
			strconv.Itoa(i + 1),
			r.Info.Title,
			humanize.Comma(r.Info.Downloads),
			FormatUpdated(r.Info.Updated),
			Sources(r.Info),
		}
		if wide {
			row = append(row, r.ID, r.Info.Description)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// SummaryToTableData converts the statistics of a run to a key-value table.
func SummaryToTableData(result *reconciler.Result) Data {
	s := result.Metadata.Stats
	rows := [][]string{
		{"Run", result.RunID},
		{"Records", humanize.Comma(int64(s.Records))},
		{"Invalid", humanize.Comma(int64(s.Invalid))},
		{"Created", humanize.Comma(int64(s.Created))},
		{"Projects", humanize.Comma(int64(s.Projects))},
	}
	for _, id := range types.SourceIDs() {
		if unresolved, ok := result.Unresolved[id]; ok {
			rows = append(rows, []string{"Unresolved (" + id.String() + ")", strconv.Itoa(len(unresolved))})
		}
	}
	rows = append(rows,
		[]string{"Errors", strconv.Itoa(len(result.Errors))},
		[]string{"Duration", result.Metadata.Duration.Round(time.Millisecond).String()},
	)
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// FormatUpdated renders a last update time relative to now.
func FormatUpdated(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return humanize.Time(*t)
}

// Sources lists the sources a project is linked to.
func Sources(info *projects.Info) string {
	var out string
	for _, field := range []types.Field{types.FieldSource, types.FieldModrinth, types.FieldCurseForge} {
		if info.URL(field) == nil {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += titled(field.String())
	}
	return dash(out)
}

// StateLabel renders a provenance state for humans.
func StateLabel(v provenance.Value) string {
	return titled(v.State().String())
}

// titled title-cases s. Casers are stateful, so each call gets its own.
func titled(s string) string {
	return cases.Title(language.English).String(s)
}

func check(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
