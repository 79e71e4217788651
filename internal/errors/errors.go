// Package errors provides error handling utilities.
package errors

import (
	"fmt"
	"strings"
)

// Type identifies the category of error
type Type string

const (
	// TypeValidation indicates a rejected request (aggregated field errors)
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeInput indicates a malformed single input value
	TypeInput Type = "INPUT_ERROR"

	// TypeProvider indicates an external provider (tax/distance) failure
	TypeProvider Type = "PROVIDER_ERROR"

	// TypeCalculation indicates an internal calculation failure
	TypeCalculation Type = "CALC_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNotFound indicates a lookup miss (service code, bracket)
	TypeNotFound Type = "NOT_FOUND"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`

	// Details carries the individual violations for validation errors
	Details []string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Message, strings.Join(e.Details, "; "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Validation creates an aggregated validation error. Every violated
// constraint is listed, not just the first.
func Validation(violations []string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: "request validation failed",
		Details: violations,
	}
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Provider creates a provider error
func Provider(provider string, cause error) *Error {
	return Wrap(TypeProvider, fmt.Sprintf("%s provider failed", provider), cause)
}

// Calculation wraps an internal failure with a stable machine-readable
// code and the offending request for diagnostics.
func Calculation(cause error, request interface{}) *Error {
	e := Wrap(TypeCalculation, "calculation failed", cause)
	return e.WithContext("request", request)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}
