// Package reconcile provides the reconcile command.
package reconcile

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/taxsync/internal/appcontext"
	"github.com/agentstation/taxsync/pkg/constants"
)

// NewCommand creates the reconcile command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "reconcile [in_seqinfo] [out_seqinfo]",
		GroupID: "core",
		Short:   "Correct stale tax ids in a seqinfo table",
		Args:    cobra.MaximumNArgs(2),
		Long: `Reconcile reads a seqinfo CSV table and checks the tax_id of every row
against the nodes table of a local taxonomy database.

For each row:
• A tax_id the database knows is written unchanged
• An unknown tax_id is looked up once with NCBI Entrez efetch and
  replaced by the current id (or 1 when Entrez names none)
• A replacement the database also lacks is written anyway and logged
  as a warning: the database is older than Entrez

Any database or Entrez failure stops the run. Rows written before the
failure stay in the output. Input and output default to stdin and stdout.`,
		Example: `  taxsync reconcile seq_info.csv fixed.csv --db taxonomy.db --email me@example.org
  cat seq_info.csv | taxsync reconcile --db taxonomy.db --email me@example.org > fixed.csv
  taxsync reconcile in.csv out.csv --db taxonomy.db --summary table
  TAXSYNC_DB=taxonomy.db TAXSYNC_EMAIL=me@example.org taxsync reconcile in.csv out.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := constants.Stdio, constants.Stdio
			if len(args) > 0 {
				in = args[0]
			}
			if len(args) > 1 {
				out = args[1]
			}

			flags.merge(cmd, app.Settings())
			streams := Streams{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			}
			return Execute(cmd.Context(), app, flags, in, out, streams)
		},
	}

	flags = addFlags(cmd)

	return cmd
}
