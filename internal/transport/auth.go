package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// QueryAuth implements API key as query parameter authentication.
// NCBI E-utilities read the key from the api_key parameter.
type QueryAuth struct {
	Param string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request, apiKey string) {
	if req.URL == nil || apiKey == "" {
		return
	}

	query := req.URL.Query()
	query.Set(a.Param, apiKey)
	req.URL.RawQuery = query.Encode()
}

// Contact identifies the operator to a service that asks for accountability
// details on each request, as NCBI does with its email and tool parameters.
type Contact struct {
	Email string
	Tool  string
}

// Apply adds the contact parameters to req's query string.
func (c Contact) Apply(req *http.Request) {
	if req.URL == nil {
		return
	}
	query := req.URL.Query()
	if c.Email != "" {
		query.Set("email", c.Email)
	}
	if c.Tool != "" {
		query.Set("tool", c.Tool)
	}
	req.URL.RawQuery = query.Encode()
}
