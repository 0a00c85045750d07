package app

import (
	stderrors "errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/taxsync/internal/appcontext"
	"github.com/agentstation/taxsync/pkg/constants"
	"github.com/agentstation/taxsync/pkg/errors"
)

// EnvPrefix prefixes every environment variable taxsync reads.
const EnvPrefix = "TAXSYNC"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Reconcile defaults
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

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (TAXSYNC_*)
// 3. .env files
// 4. Config file (./.taxsync.yaml or ~/.taxsync.yaml, or configFile if set)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first so viper sees their values as environment
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// NCBI documents NCBI_API_KEY; accept it alongside our own variable
	if err := v.BindEnv("api_key", EnvPrefix+"_API_KEY", "NCBI_API_KEY"); err != nil {
		return nil, errors.NewConfigError("env", "binding api_key", err)
	}

	setDefaults(v)

	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("file", "reading "+configFile, err)
		}
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(".taxsync")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		// A missing config file is fine; a broken one is not
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.NewConfigError("file", "reading config", err)
			}
		}
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),

		ConfigFile: v.ConfigFileUsed(),

		DB:          v.GetString("db"),
		Email:       v.GetString("email"),
		APIKey:      v.GetString("api_key"),
		EntrezURL:   v.GetString("entrez_url"),
		Tool:        v.GetString("tool"),
		Column:      v.GetString("column"),
		Timeout:     v.GetDuration("timeout"),
		RateLimit:   v.GetFloat64("rate_limit"),
		Summary:     v.GetString("summary"),
		SummaryFile: v.GetString("summary_file"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("entrez_url", constants.EntrezBaseURL)
	v.SetDefault("tool", constants.DefaultTool)
	v.SetDefault("column", constants.TaxIDColumn)
	v.SetDefault("timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel, logFormat string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if logFormat != "" {
		c.LogFormat = logFormat
	}
}

// Settings returns the reconcile defaults carried by c.
func (c *Config) Settings() appcontext.Settings {
	return appcontext.Settings{
		DB:          c.DB,
		Email:       c.Email,
		APIKey:      c.APIKey,
		EntrezURL:   c.EntrezURL,
		Tool:        c.Tool,
		Column:      c.Column,
		Timeout:     c.Timeout,
		RateLimit:   c.RateLimit,
		Summary:     c.Summary,
		SummaryFile: c.SummaryFile,
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are never overwritten, so
// .env.local only fills what .env left unset.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
