package reconcile

import (
	"github.com/agentstation/taxsync/pkg/taxonomy"
)

// Outcome classifies what happened to a record's identifier.
type Outcome string

const (
	// OutcomeCurrent means the identifier was already in the authority.
	OutcomeCurrent Outcome = "current"
	// OutcomeCorrected means the identifier was replaced and the replacement
	// is in the authority.
	OutcomeCorrected Outcome = "corrected"
	// OutcomeStale means the identifier was replaced but the authority does
	// not know the replacement. The record is still emitted.
	OutcomeStale Outcome = "stale"
	// OutcomeAbsent means the identifier was resolved but the record has no
	// identifier column to write it to. The record is emitted unchanged.
	OutcomeAbsent Outcome = "absent"
)

// String returns the outcome name.
func (o Outcome) String() string {
	return string(o)
}

// Result describes the reconciliation of a single record.
type Result struct {
	// Line is the input line the record started on.
	Line int
	// Original is the identifier as read.
	Original string
	// TaxID is the identifier as written.
	TaxID   string
	Outcome Outcome
	// Sentinel is set when the remote record named no identifier and the
	// root sentinel was written instead.
	Sentinel bool
	// Resolution is the remote record, nil unless a remote call succeeded.
	Resolution *taxonomy.Resolution

	// AuthorityQueries counts lookups made for this record (1 or 2).
	AuthorityQueries int
	// Remote reports whether the resolver was called.
	Remote bool
}

// Changed reports whether the identifier was rewritten.
func (r Result) Changed() bool {
	return r.Outcome == OutcomeCorrected || r.Outcome == OutcomeStale
}
