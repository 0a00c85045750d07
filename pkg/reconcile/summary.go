package reconcile

import (
	"time"
)

// Summary aggregates the results of a run. A run that stopped on a fatal
// error still returns the Summary of the rows it completed.
type Summary struct {
	// RunID tags every log line of the run.
	RunID string `json:"run_id" yaml:"run_id"`

	Rows      int `json:"rows" yaml:"rows"`
	Current   int `json:"current" yaml:"current"`
	Corrected int `json:"corrected" yaml:"corrected"`
	Stale     int `json:"stale" yaml:"stale"`
	Absent    int `json:"absent" yaml:"absent"`
	Sentinel  int `json:"sentinel" yaml:"sentinel"`

	RemoteCalls      int `json:"remote_calls" yaml:"remote_calls"`
	AuthorityQueries int `json:"authority_queries" yaml:"authority_queries"`

	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Aborted   bool          `json:"aborted" yaml:"aborted"`

	// StaleIDs lists replacement identifiers the authority lacked, in the
	// order first seen.
	StaleIDs []string `json:"stale_ids,omitempty" yaml:"stale_ids,omitempty"`

	staleSeen map[string]struct{}
}

func newSummary(runID string, start time.Time) *Summary {
	return &Summary{
		RunID:     runID,
		StartedAt: start,
		staleSeen: make(map[string]struct{}),
	}
}

// add counts the lookups made for a result, whether or not it completed.
func (s *Summary) add(res Result) {
	s.AuthorityQueries += res.AuthorityQueries
	if res.Remote {
		s.RemoteCalls++
	}
}

// emit records a result whose row was written.
func (s *Summary) emit(res Result) {
	s.Rows++
	switch res.Outcome {
	case OutcomeCurrent:
		s.Current++
	case OutcomeCorrected:
		s.Corrected++
	case OutcomeStale:
		s.Stale++
		if _, ok := s.staleSeen[res.TaxID]; !ok {
			s.staleSeen[res.TaxID] = struct{}{}
			s.StaleIDs = append(s.StaleIDs, res.TaxID)
		}
	case OutcomeAbsent:
		s.Absent++
	}
	if res.Sentinel {
		s.Sentinel++
	}
}

func (s *Summary) finish(end time.Time) {
	s.Duration = end.Sub(s.StartedAt)
}
