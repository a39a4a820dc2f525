// Package render writes the hall of fame page from a canonical project set.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	md "github.com/nao1215/markdown"

	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/types"
)

// Options configures the rendered page.
type Options struct {
	Title       string
	Description string
	// Limit caps the number of listed projects. Zero lists all of them.
	Limit int
	// IconSize is the icon width and height in pixels. Zero hides icons.
	IconSize int
	// Now stamps the footer.
	Now time.Time
}

// Option is a functional option for the page.
type Option func(*Options)

// WithTitle sets the page heading.
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithDescription sets the paragraph under the heading.
func WithDescription(desc string) Option {
	return func(o *Options) {
		o.Description = desc
	}
}

// WithLimit lists only the n most downloaded projects.
func WithLimit(n int) Option {
	return func(o *Options) {
		o.Limit = n
	}
}

// WithIconSize sets the icon size; zero hides icons.
func WithIconSize(px int) Option {
	return func(o *Options) {
		o.IconSize = px
	}
}

// WithNow sets the footer time.
func WithNow(t time.Time) Option {
	return func(o *Options) {
		o.Now = t
	}
}

func defaults() *Options {
	return &Options{
		Title:       "Hall of Fame",
		Description: "Projects built with Stonecutter, ranked by downloads across Modrinth and CurseForge.",
		IconSize:    32,
		Now:         time.Now(),
	}
}

// Page writes the markdown page for set to w, most downloaded first.
func Page(w io.Writer, set map[string]*projects.Info, opts ...Option) error {
	o := defaults()
	for _, opt := range opts {
		opt(o)
	}

	ranked := projects.Rank(set)
	if o.Limit > 0 && len(ranked) > o.Limit {
		ranked = ranked[:o.Limit]
	}

	var total int64
	for _, r := range ranked {
		total += r.Info.Downloads
	}

	doc := md.NewMarkdown(w)
	doc.H1(o.Title).LF()
	if o.Description != "" {
		doc.PlainText(o.Description).LF()
	}
	doc.PlainTextf("%s projects, %s downloads in total.",
		md.Bold(humanize.Comma(int64(len(ranked)))), md.Bold(humanize.Comma(total))).LF()

	headers := []string{"#", "Project", "Downloads", "Updated", "Links"}
	if o.IconSize > 0 {
		headers = append([]string{""}, headers...)
	}
	rows := make([][]string, 0, len(ranked))
	for i, r := range ranked {
		row := []string{
			fmt.Sprintf("%d", i+1),
			projectCell(r.Info),
			humanize.Comma(r.Info.Downloads),
			updatedCell(r.Info.Updated),
			linksCell(r.Info),
		}
		if o.IconSize > 0 {
			row = append([]string{iconCell(r.Info, o.IconSize)}, row...)
		}
		rows = append(rows, row)
	}
	doc.Table(md.TableSet{Header: headers, Rows: rows}).LF()

	doc.HorizontalRule()
	doc.PlainText(md.Italic("Last updated " + o.Now.UTC().Format("2006-01-02 15:04 MST")))
	return doc.Build()
}

// links lists the project pages in display order.
var links = []struct {
	field types.Field
	label string
}{
	{types.FieldModrinth, "Modrinth"},
	{types.FieldCurseForge, "CurseForge"},
	{types.FieldSource, "Source"},
}

func projectCell(info *projects.Info) string {
	name := cell(info.Title)
	for _, l := range links {
		if url := info.URL(l.field); url != nil {
			name = md.Link(name, *url)
			break
		}
	}
	name = md.Bold(name)
	if desc := cell(info.Description); desc != "" {
		name += "<br>" + desc
	}
	return name
}

func linksCell(info *projects.Info) string {
	var parts []string
	for _, l := range links {
		if url := info.URL(l.field); url != nil {
			parts = append(parts, md.Link(l.label, *url))
		}
	}
	return strings.Join(parts, " · ")
}

func iconCell(info *projects.Info, size int) string {
	if info.Icon == "" {
		return ""
	}
	return fmt.Sprintf(`<img src="%s" alt="" width="%d" height="%d">`, info.Icon, size, size)
}

func updatedCell(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.DateOnly)
}

// cell makes text safe inside a table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
