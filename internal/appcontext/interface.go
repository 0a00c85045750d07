// Package appcontext provides the shared application context interface
// used by all commands. Commands accept it instead of the concrete App so
// they can be tested with a Mock.
package appcontext

import (
	"time"

	"github.com/rs/zerolog"
)

// Settings are the configured defaults for reconcile flags, resolved from
// the config file, the environment and .env files.
type Settings struct {
	DB        string
	Email     string
	APIKey    string
	EntrezURL string
	Tool      string
	Column    string
	Timeout   time.Duration
	RateLimit float64
	// Summary is the summary format; SummaryFile redirects it from stderr.
	Summary     string
	SummaryFile string
}

// Interface defines the application context interface that commands need.
type Interface interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// Settings returns the configured flag defaults.
	Settings() Settings

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
