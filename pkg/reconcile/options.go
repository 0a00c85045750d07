package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/taxsync/pkg/constants"
	"github.com/agentstation/taxsync/pkg/errors"
)

type options struct {
	column  string
	logger  *zerolog.Logger
	onStale func(Result)
}

func defaultOptions() *options {
	nop := zerolog.Nop()
	return &options{
		column: constants.TaxIDColumn,
		logger: &nop,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithColumn sets the name of the identifier column. Defaults to tax_id.
func WithColumn(name string) Option {
	return func(o *options) error {
		if name == "" {
			return &errors.ValidationError{
				Field:   "column",
				Message: "cannot be empty",
			}
		}
		o.column = name
		return nil
	}
}

// WithLogger sets the logger that receives progress and stale warnings.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.logger = logger
		return nil
	}
}

// WithStaleHook registers fn to be called for every record whose replacement
// identifier is missing from the authority.
func WithStaleHook(fn func(Result)) Option {
	return func(o *options) error {
		o.onStale = fn
		return nil
	}
}
