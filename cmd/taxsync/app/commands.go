package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/taxsync/cmd/taxsync/cmd/completion"
	"github.com/agentstation/taxsync/cmd/taxsync/cmd/reconcile"
	"github.com/agentstation/taxsync/cmd/taxsync/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
}
