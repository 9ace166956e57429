package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Webhook Errors.

	// ErrMalformedPayload indicates no extraction strategy yielded an operation.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrMissingArgument indicates a required operation argument is absent.
	ErrMissingArgument = errors.New("missing argument")

	// ErrUnknownOperation indicates the operation name has no handler.
	ErrUnknownOperation = errors.New("unknown operation")

	// Authentication Errors.

	// ErrReauthorizationRequired indicates an operator must complete the
	// OAuth consent flow again before the integration can be used.
	ErrReauthorizationRequired = errors.New("reauthorization required")

	// Upstream Errors.

	// ErrUpstreamAPI indicates a failure reported by a Google-side REST call.
	ErrUpstreamAPI = errors.New("upstream API error")
)

// MissingArgumentError names the operation and the key it lacked.
type MissingArgumentError struct {
	Operation string
	Key       string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing argument %q for operation %q", e.Key, e.Operation)
}

// Unwrap allows errors.Is(err, ErrMissingArgument).
func (e *MissingArgumentError) Unwrap() error {
	return ErrMissingArgument
}

// UnknownOperationError carries the unrecognised operation name.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}

// Unwrap allows errors.Is(err, ErrUnknownOperation).
func (e *UnknownOperationError) Unwrap() error {
	return ErrUnknownOperation
}

// ReauthorizationError is returned when a token cannot be obtained without
// operator intervention.
type ReauthorizationError struct {
	Integration string
	Reason      string
}

func (e *ReauthorizationError) Error() string {
	msg := fmt.Sprintf("reauthorization required for %s", e.Integration)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg + " (run `tinatools auth login`)"
}

// Unwrap allows errors.Is(err, ErrReauthorizationRequired).
func (e *ReauthorizationError) Unwrap() error {
	return ErrReauthorizationRequired
}

// UpstreamError wraps a failure from an outbound REST call.
type UpstreamError struct {
	// Service is the upstream name ("people", "gmail", "docs", "drive", "oauth2").
	Service string
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s API error: %v", e.Service, e.Err)
}

// Unwrap exposes both ErrUpstreamAPI and the underlying cause.
func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamAPI, e.Err}
}
