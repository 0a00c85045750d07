package output

import (
	"io"
	"time"

	"github.com/agentstation/taxsync/pkg/reconcile"
)

// SummaryReport is the printable form of a reconcile.Summary.
type SummaryReport struct {
	RunID            string   `json:"run_id" yaml:"run_id"`
	Status           string   `json:"status" yaml:"status"`
	Rows             int      `json:"rows" yaml:"rows"`
	Current          int      `json:"current" yaml:"current"`
	Corrected        int      `json:"corrected" yaml:"corrected"`
	Stale            int      `json:"stale" yaml:"stale"`
	Absent           int      `json:"absent" yaml:"absent"`
	Sentinel         int      `json:"sentinel" yaml:"sentinel"`
	RemoteCalls      int      `json:"remote_calls" yaml:"remote_calls"`
	AuthorityQueries int      `json:"authority_queries" yaml:"authority_queries"`
	StartedAt        string   `json:"started_at" yaml:"started_at"`
	Duration         string   `json:"duration" yaml:"duration"`
	StaleIDs         []string `json:"stale_ids,omitempty" yaml:"stale_ids,omitempty"`
}

// Status values reported for a run.
const (
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// NewSummaryReport converts sum for output.
func NewSummaryReport(sum *reconcile.Summary) SummaryReport {
	status := StatusCompleted
	if sum.Aborted {
		status = StatusAborted
	}
	return SummaryReport{
		RunID:            sum.RunID,
		Status:           status,
		Rows:             sum.Rows,
		Current:          sum.Current,
		Corrected:        sum.Corrected,
		Stale:            sum.Stale,
		Absent:           sum.Absent,
		Sentinel:         sum.Sentinel,
		RemoteCalls:      sum.RemoteCalls,
		AuthorityQueries: sum.AuthorityQueries,
		StartedAt:        sum.StartedAt.UTC().Format(time.RFC3339),
		Duration:         sum.Duration.Round(time.Millisecond).String(),
		StaleIDs:         sum.StaleIDs,
	}
}

// FormatSummary writes sum to w in format. Tables list one field per row.
func FormatSummary(w io.Writer, format Format, sum *reconcile.Summary) error {
	return NewFormatter(format).Format(w, NewSummaryReport(sum))
}
