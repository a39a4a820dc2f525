// Package version provides the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/halloffame/internal/appcontext"
)

// NewCommand creates the version command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		GroupID: "tools",
		Short:   "Show version information",
		Long:    `Show version information for the halloffame CLI.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			_, err := fmt.Fprintf(w,
				"halloffame version %s\ncommit: %s\nbuilt: %s\nbuilt by: %s\ngo version: %s\nplatform: %s/%s\n",
				app.Version(), app.Commit(), app.Date(), app.BuiltBy(),
				runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
