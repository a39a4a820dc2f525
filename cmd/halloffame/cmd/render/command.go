// Package render provides the render command.
package render

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/halloffame/internal/appcontext"
	"github.com/agentstation/halloffame/internal/persistence"
	"github.com/agentstation/halloffame/internal/render"
	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
)

// Flags holds the render command flags.
type Flags struct {
	Projects    string
	Out         string
	Title       string
	Description string
	Limit       int
	IconSize    int
}

// NewCommand creates the render command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "render",
		GroupID: "core",
		Short:   "Render the hall of fame page from the projects file",
		Long: `Render writes a markdown page listing the collected projects,
most downloaded first. The page is written to stdout unless --out is set.`,
		Example: `  halloffame render --out docs/hall-of-fame.md
  halloffame render --limit 50 --icon-size 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Projects, "projects", app.Paths().Projects, "canonical projects file written by collect")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&flags.Title, "title", "", "page heading")
	cmd.Flags().StringVar(&flags.Description, "description", "", "paragraph under the heading")
	cmd.Flags().IntVar(&flags.Limit, "limit", 0, "list only the N most downloaded projects")
	cmd.Flags().IntVar(&flags.IconSize, "icon-size", 32, "icon size in pixels, 0 hides icons")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	set, err := persistence.LoadProjects(flags.Projects)
	if err != nil {
		return err
	}

	opts := []render.Option{
		render.WithLimit(flags.Limit),
		render.WithIconSize(flags.IconSize),
	}
	if flags.Title != "" {
		opts = append(opts, render.WithTitle(flags.Title))
	}
	if flags.Description != "" {
		opts = append(opts, render.WithDescription(flags.Description))
	}

	if flags.Out == "" {
		return render.Page(cmd.OutOrStdout(), set, opts...)
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, set, opts...); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flags.Out), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(flags.Out), err)
	}
	if err := os.WriteFile(flags.Out, buf.Bytes(), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", flags.Out, err)
	}
	app.Logger().Info().
		Int("projects", len(set)).
		Str("out", flags.Out).
		Msg("Rendered page")
	return nil
}
