// Package completion provides the shell completion command.
package completion

import (
	"github.com/spf13/cobra"
)

// Shell names accepted by the completion command.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// NewCommand creates the completion command. Scripts are written to stdout.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for taxsync.

Bash:

  $ source <(taxsync completion bash)

Zsh:

  $ taxsync completion zsh > "${fpath[1]}/_taxsync"

Fish:

  $ taxsync completion fish | source

PowerShell:

  PS> taxsync completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case ShellBash:
				return root.GenBashCompletionV2(out, true)
			case ShellZsh:
				return root.GenZshCompletion(out)
			case ShellFish:
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
