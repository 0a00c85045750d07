package reconcile

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/taxsync/internal/appcontext"
	"github.com/agentstation/taxsync/internal/cmd/output"
	"github.com/agentstation/taxsync/pkg/constants"
	"github.com/agentstation/taxsync/pkg/errors"
)

// Flags holds the reconcile command's flag values.
type Flags struct {
	DB          string
	Email       string
	APIKey      string
	EntrezURL   string
	Tool        string
	Column      string
	Timeout     time.Duration
	RateLimit   float64
	Summary     string
	SummaryFile string
}

func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}
	f := cmd.Flags()
	f.StringVar(&flags.DB, "db", "", "taxonomy database path (SQLite with a nodes table) [$TAXSYNC_DB]")
	f.StringVar(&flags.Email, "email", "", "contact email sent to NCBI Entrez [$TAXSYNC_EMAIL]")
	f.StringVar(&flags.APIKey, "api-key", "", "NCBI API key [$TAXSYNC_API_KEY, $NCBI_API_KEY]")
	f.StringVar(&flags.EntrezURL, "entrez-url", "", "E-utilities base URL")
	f.StringVar(&flags.Tool, "tool", "", "tool name sent to NCBI Entrez")
	f.StringVar(&flags.Column, "column", "", "name of the identifier column (default tax_id)")
	f.DurationVar(&flags.Timeout, "timeout", 0, "timeout for each Entrez request (0 means none)")
	f.Float64Var(&flags.RateLimit, "rate-limit", 0, "max Entrez requests per second (0 uses the NCBI limit, negative disables) [$TAXSYNC_RATE_LIMIT]")
	f.StringVar(&flags.Summary, "summary", "", "print a run summary to stderr: table, json, yaml, auto")
	f.StringVar(&flags.SummaryFile, "summary-file", "", "write the run summary to this file instead of stderr [$TAXSYNC_SUMMARY_FILE]")
	return flags
}

// merge fills unset flags from the configured defaults.
func (f *Flags) merge(cmd *cobra.Command, s appcontext.Settings) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&f.DB, s.DB)
	fill(&f.Email, s.Email)
	fill(&f.APIKey, s.APIKey)
	fill(&f.EntrezURL, s.EntrezURL)
	fill(&f.Tool, s.Tool)
	fill(&f.Column, s.Column)
	fill(&f.Summary, s.Summary)
	fill(&f.SummaryFile, s.SummaryFile)
	fill(&f.Column, constants.TaxIDColumn)
	if !cmd.Flags().Changed("timeout") {
		f.Timeout = s.Timeout
	}
	if !cmd.Flags().Changed("rate-limit") {
		f.RateLimit = s.RateLimit
	}
}

// validate reports settings the run cannot start without.
func (f *Flags) validate() error {
	if f.DB == "" {
		return errors.NewConfigError("db", "a taxonomy database is required (--db or TAXSYNC_DB)", nil)
	}
	if f.Email == "" {
		return errors.NewConfigError("email", "a contact email is required by NCBI (--email or TAXSYNC_EMAIL)", nil)
	}
	if f.Summary != "" {
		if _, err := output.ParseFormat(f.Summary); err != nil {
			return errors.NewConfigError("summary", "invalid summary format", err)
		}
	}
	return nil
}

// wantsSummary reports whether a run summary was requested.
func (f *Flags) wantsSummary() bool {
	return f.Summary != "" || f.SummaryFile != ""
}

// summaryFormat returns the summary format for dst. Without an explicit
// format, terminals get a table and everything else JSON.
func (f *Flags) summaryFormat(dst *os.File) output.Format {
	return output.DetectFormat(f.Summary, dst)
}
