// Package errors provides custom error types for taxsync.
// These errors separate the fatal conditions of a reconciliation run
// (bad input schema, unavailable authority, failed remote resolution)
// so callers can check them with errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for taxsync.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSchema indicates that the input table has no usable header
	ErrSchema = errors.New("invalid table schema")

	// ErrAuthorityUnavailable indicates that the lookup authority cannot be used
	ErrAuthorityUnavailable = errors.New("lookup authority unavailable")

	// ErrResolutionFailed indicates that the remote resolver gave no usable record
	ErrResolutionFailed = errors.New("remote resolution failed")

	// ErrRateLimited indicates that the remote API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates that the remote service is temporarily unavailable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SchemaError reports an input table whose header cannot be used.
// It is raised before any row is processed.
type SchemaError struct {
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("schema error in %s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("schema error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(source, message string, err error) *SchemaError {
	return &SchemaError{Source: source, Message: message, Err: err}
}

// AuthorityError reports a lookup authority that cannot be opened or queried.
type AuthorityError struct {
	Operation string // "open", "ping", "prepare", "query"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *AuthorityError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("lookup authority %s failed for %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("lookup authority %s failed: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthorityError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthorityError) Is(target error) bool {
	return target == ErrAuthorityUnavailable
}

// NewAuthorityError creates a new AuthorityError
func NewAuthorityError(operation, path string, err error) *AuthorityError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &AuthorityError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResolutionError reports a remote lookup that produced no usable taxonomic record.
// It wraps the transport or parse failure that caused it.
type ResolutionError struct {
	Service string
	ID      string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	switch {
	case e.Err != nil && e.Message == "":
		return fmt.Sprintf("resolving tax id %q via %s: %v", e.ID, e.Service, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("resolving tax id %q via %s: %s: %v", e.ID, e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("resolving tax id %q via %s: %s", e.ID, e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolutionFailed
}

// NewResolutionError creates a new ResolutionError
func NewResolutionError(service, id, message string, err error) *ResolutionError {
	return &ResolutionError{
		Service: service,
		ID:      id,
		Message: message,
		Err:     err,
	}
}

// APIError represents an error from a remote API
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrServiceUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "xml", "yaml"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s parse error at line %d: %s", e.Format, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close", "flush"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSchema checks if an error is an input schema error
func IsSchema(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsAuthorityUnavailable checks if an error means the lookup authority is unusable
func IsAuthorityUnavailable(err error) bool {
	return errors.Is(err, ErrAuthorityUnavailable)
}

// IsResolutionFailed checks if an error is a remote resolution failure
func IsResolutionFailed(err error) bool {
	return errors.Is(err, ErrResolutionFailed)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAuthority wraps an error as an AuthorityError
func WrapAuthority(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewAuthorityError(operation, path, err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(service string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
