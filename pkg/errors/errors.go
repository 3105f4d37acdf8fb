// Package errors provides custom error types for the amendmap system.
// These errors enable programmatic error checking and a clean split between
// the two fatal conditions that stop a run and the recoverable conditions
// that become run-summary counters.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the amendmap system
var (
	// ErrMissingInput indicates a required input (roster, raw records) is
	// absent or empty. Fatal: the run aborts before any aggregation.
	ErrMissingInput = errors.New("missing required input")

	// ErrEmptyFetch indicates the acquisition chain exhausted every provider
	// without producing a single record. Fatal: aggregating an empty input
	// would silently publish all-zero totals.
	ErrEmptyFetch = errors.New("acquisition produced no records")

	// ErrAmbiguous indicates a name matched more than one distinct roster member
	ErrAmbiguous = errors.New("ambiguous entity")

	// ErrExhausted indicates every provider in a fallback chain failed
	ErrExhausted = errors.New("all providers exhausted")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")
)

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

// SourceError represents a failure of one provider in the acquisition chain
type SourceError struct {
	Provider string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("source %s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("source %s: %v", e.Provider, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError
func NewSourceError(provider, message string, err error) *SourceError {
	return &SourceError{Provider: provider, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv", "html"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "remove"
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
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// APIError represents an error from an upstream HTTP API
type APIError struct {
	Provider   string
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsFatal reports whether an error is one of the two conditions that must
// stop a run before any artifact is published.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingInput) || errors.Is(err, ErrEmptyFetch)
}

// IsExhausted checks if an error indicates a fully exhausted fallback chain
func IsExhausted(err error) bool {
	return errors.Is(err, ErrExhausted)
}

// Helper wrapping functions for common patterns

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
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
