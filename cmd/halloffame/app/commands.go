package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/halloffame/cmd/halloffame/cmd/collect"
	"github.com/agentstation/halloffame/cmd/halloffame/cmd/match"
	"github.com/agentstation/halloffame/cmd/halloffame/cmd/render"
	"github.com/agentstation/halloffame/cmd/halloffame/cmd/report"
	"github.com/agentstation/halloffame/cmd/halloffame/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(collect.NewCommand(a))
	rootCmd.AddCommand(report.NewCommand(a))
	rootCmd.AddCommand(render.NewCommand(a))

	// Tools
	rootCmd.AddCommand(match.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}
