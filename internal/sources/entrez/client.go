// Package entrez resolves taxonomic identifiers against the NCBI Entrez
// E-utilities efetch endpoint.
package entrez

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/taxsync/internal/transport"
	"github.com/agentstation/taxsync/pkg/constants"
	"github.com/agentstation/taxsync/pkg/errors"
	"github.com/agentstation/taxsync/pkg/taxonomy"
)

// ServiceName identifies Entrez in errors and logs.
const ServiceName = "entrez"

// Config holds the settings for an Entrez client.
type Config struct {
	// BaseURL is the E-utilities root. efetch.fcgi is appended to it.
	BaseURL string
	// Email identifies the operator to NCBI. Required.
	Email string
	// Tool names the calling program. Defaults to taxsync.
	Tool string
	// APIKey raises the NCBI rate ceiling when set.
	APIKey string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	// RateLimit caps requests per second. Zero picks the NCBI ceiling for
	// the key state; a negative value disables the cap.
	RateLimit float64
}

// Validate reports missing or malformed settings.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return errors.NewValidationError("email", c.Email, "an operator email is required by NCBI")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return errors.WrapValidation("base_url", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return errors.NewValidationError("base_url", c.BaseURL, "must be an absolute URL")
		}
	}
	if c.Timeout < 0 {
		return errors.NewValidationError("timeout", c.Timeout, "must not be negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = constants.EntrezBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Tool == "" {
		c.Tool = constants.DefaultTool
	}
	if c.RateLimit == 0 {
		c.RateLimit = constants.EntrezRateLimit
		if c.APIKey != "" {
			c.RateLimit = constants.EntrezKeyedRateLimit
		}
	}
	return c
}

// Client is a taxonomy.Resolver backed by Entrez efetch.
type Client struct {
	cfg       Config
	transport *transport.Client
	logger    *zerolog.Logger
}

var _ taxonomy.Resolver = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zerolog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransport replaces the HTTP transport. Mostly useful in tests.
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// NewClient creates an Entrez client from cfg.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	nop := zerolog.Nop()
	c := &Client{
		cfg:    cfg,
		logger: &nop,
		transport: transport.New(
			transport.WithTimeout(cfg.Timeout),
			transport.WithContact(transport.Contact{Email: cfg.Email, Tool: cfg.Tool}),
			transport.WithAPIKey(&transport.QueryAuth{Param: "api_key"}, cfg.APIKey),
			transport.WithRateLimit(cfg.RateLimit),
			transport.WithUserAgent(cfg.Tool),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Resolve fetches the taxonomy record for id. It makes exactly one request
// and never retries; any failure is a ResolutionError.
func (c *Client) Resolve(ctx context.Context, id string) (taxonomy.Resolution, error) {
	if strings.TrimSpace(id) == "" {
		return taxonomy.Resolution{}, errors.NewResolutionError(ServiceName, id, "empty identifier", nil)
	}

	reqURL := c.fetchURL(id)
	c.logger.Debug().Str("tax_id", id).Str("endpoint", c.cfg.BaseURL).Msg("efetch")

	resp, err := c.transport.Get(ctx, reqURL)
	if err != nil {
		return taxonomy.Resolution{}, errors.NewResolutionError(ServiceName, id, "request failed", err)
	}

	var set TaxaSet
	if err := transport.DecodeXML(resp, ServiceName, &set); err != nil {
		return taxonomy.Resolution{}, errors.NewResolutionError(ServiceName, id, "bad response", err)
	}
	if set.Error != "" {
		return taxonomy.Resolution{}, errors.NewResolutionError(ServiceName, id, strings.TrimSpace(set.Error), nil)
	}
	if len(set.Taxa) == 0 {
		return taxonomy.Resolution{}, errors.NewResolutionError(ServiceName, id, "no taxon in response", nil)
	}

	return set.Taxa[0].Resolution(id), nil
}

func (c *Client) fetchURL(id string) string {
	q := url.Values{}
	q.Set("db", constants.EntrezDatabase)
	q.Set("id", id)
	q.Set("retmode", "xml")
	return c.cfg.BaseURL + "/efetch.fcgi?" + q.Encode()
}
