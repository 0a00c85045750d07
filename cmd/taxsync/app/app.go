// Package app provides the application context and dependency management
// for the taxsync CLI: configuration, logging and lifecycle.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/taxsync/internal/appcontext"
	"github.com/agentstation/taxsync/pkg/logging"
)

// App represents the taxsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// fixedLogger is set when WithLogger supplied the logger, which then
	// survives flag parsing.
	fixedLogger bool
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and the default config
// file locations; options may replace it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Settings returns the configured reconcile defaults.
func (a *App) Settings() appcontext.Settings {
	return a.config.Settings()
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Shutdown flushes nothing today; commands close their own resources.
// It exists so main can treat every exit path the same way.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("shutdown")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			logger = &logging.Nop
		}
		a.logger = logger
		a.fixedLogger = true
		return nil
	}
}
