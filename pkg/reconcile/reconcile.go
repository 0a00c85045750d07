// Package reconcile checks the taxonomic identifiers of a seqinfo table
// against a local authority and corrects the ones the authority does not
// know by asking a remote resolver for their current value.
//
// Records are processed one at a time in input order. Each record is
// emitted exactly once with only its identifier column possibly changed.
// A replacement that the authority also lacks is logged as a warning and
// the record is still written; a failed lookup or remote call stops the run.
package reconcile

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/taxsync/pkg/authority"
	"github.com/agentstation/taxsync/pkg/errors"
	"github.com/agentstation/taxsync/pkg/logging"
	"github.com/agentstation/taxsync/pkg/seqinfo"
	"github.com/agentstation/taxsync/pkg/taxonomy"
)

// StaleMessage is logged when a replacement identifier is missing from the authority.
const StaleMessage = "authority is stale, missing replacement id"

// RecordSource yields input records in order and io.EOF at the end.
type RecordSource interface {
	Next() (*seqinfo.Record, error)
	Line() int
}

// RecordSink receives reconciled records.
type RecordSink interface {
	Write(rec *seqinfo.Record) error
}

// Reconciler runs the per-record check-resolve-recheck loop.
type Reconciler struct {
	authority authority.Authority
	resolver  taxonomy.Resolver
	column    string
	logger    *zerolog.Logger
	onStale   func(Result)
	now       func() time.Time
}

// New creates a Reconciler that checks identifiers against auth and
// resolves unknown ones with resolver.
func New(auth authority.Authority, resolver taxonomy.Resolver, opts ...Option) (*Reconciler, error) {
	if auth == nil {
		return nil, &errors.ValidationError{Field: "authority", Message: "cannot be nil"}
	}
	if resolver == nil {
		return nil, &errors.ValidationError{Field: "resolver", Message: "cannot be nil"}
	}

	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	return &Reconciler{
		authority: auth,
		resolver:  resolver,
		column:    o.column,
		logger:    logging.Component(o.logger, "reconcile"),
		onStale:   o.onStale,
		now:       time.Now,
	}, nil
}

// Column returns the identifier column name.
func (r *Reconciler) Column() string {
	return r.column
}

// Reconcile checks a single record, rewriting its identifier in place when
// the authority does not know it. The returned Result is filled in as far
// as processing got, even on error.
func (r *Reconciler) Reconcile(ctx context.Context, rec *seqinfo.Record, line int) (Result, error) {
	id, _ := rec.Get(r.column)
	res := Result{Line: line, Original: id, TaxID: id}

	n, err := r.count(ctx, &res, id)
	if err != nil {
		return res, err
	}
	if n > 0 {
		res.Outcome = OutcomeCurrent
		r.logger.Debug().Int("line", line).Str("tax_id", id).Msg("current")
		return res, nil
	}

	r.logger.Info().Int("line", line).Str("tax_id", id).Msg("missing from authority, resolving")

	res.Remote = true
	resolution, err := r.resolver.Resolve(ctx, id)
	if err != nil {
		return res, err
	}
	res.Resolution = &resolution

	replacement := resolution.Replacement()
	if !rec.Set(r.column, replacement) {
		res.Outcome = OutcomeAbsent
		r.logger.Warn().
			Int("line", line).
			Str("column", r.column).
			Str("resolved", replacement).
			Msg("identifier column absent, row left unchanged")
		return res, nil
	}
	res.TaxID = replacement
	res.Sentinel = !resolution.HasTaxID()

	n, err = r.count(ctx, &res, replacement)
	if err != nil {
		return res, err
	}
	if n == 0 {
		res.Outcome = OutcomeStale
		r.logger.Warn().Int("line", line).Str("tax_id", replacement).Msg(StaleMessage)
		if r.onStale != nil {
			r.onStale(res)
		}
		return res, nil
	}

	res.Outcome = OutcomeCorrected
	r.logger.Info().
		Int("line", line).
		Str("from", id).
		Str("tax_id", replacement).
		Bool("sentinel", res.Sentinel).
		Msg("corrected")
	return res, nil
}

func (r *Reconciler) count(ctx context.Context, res *Result, id string) (int, error) {
	res.AuthorityQueries++
	return r.authority.Count(ctx, id)
}

// Run reconciles every record from src and writes it to sink, stopping at
// the first fatal error. Rows written before the error stay written; the
// failing row is not written. The Summary is returned in both cases.
func (r *Reconciler) Run(ctx context.Context, src RecordSource, sink RecordSink) (*Summary, error) {
	sum := newSummary(uuid.New().String(), r.now())
	defer func() { sum.finish(r.now()) }()

	// Every line logged by this run carries its id
	logger := r.logger.With().Str("run_id", sum.RunID).Logger()
	run := *r
	run.logger = &logger
	r = &run

	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			sum.Aborted = true
			return sum, err
		}

		res, err := r.Reconcile(ctx, rec, src.Line())
		sum.add(res)
		if err != nil {
			sum.Aborted = true
			r.logger.Error().Err(err).Int("line", res.Line).Str("tax_id", res.Original).Msg("aborting")
			return sum, err
		}

		if err := sink.Write(rec); err != nil {
			sum.Aborted = true
			return sum, err
		}
		sum.emit(res)
	}

	r.logger.Info().
		Int("rows", sum.Rows).
		Int("corrected", sum.Corrected).
		Int("stale", sum.Stale).
		Int("absent", sum.Absent).
		Msg("reconciled")
	return sum, nil
}
