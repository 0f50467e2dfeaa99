// Package errors provides a structured error type hierarchy for histprune.
//
// This package defines base error types for common error conditions, wrapped error
// types that add contextual information, and helper functions for error wrapping
// and type checking.
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrNotFound - file not found
//   - ErrInvalid - validation failed
//   - ErrIO - file I/O error
//   - ErrCanceled - user canceled operation
//
// Wrapped error types (add context):
//   - HistoryError{Op, Path, Err} - history file operation errors
//   - ConfigError{Path, Err} - configuration errors
//
// # Usage
//
//	// Use structured error types
//	return &errors.HistoryError{Op: "backup", Path: path, Err: errors.ErrIO}
//
//	// Check error types
//	if errors.IsNotFound(err) {
//	    // handle missing history file
//	}
package errors

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	// ErrNotFound indicates a file was not found.
	ErrNotFound = baseError("not found")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrIO indicates a file I/O error.
	ErrIO = baseError("I/O error")

	// ErrCanceled indicates the user canceled an operation.
	ErrCanceled = baseError("canceled")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// HistoryError represents an error that occurred while operating on a history
// file or its sidecar files.
type HistoryError struct {
	// Op is the operation being performed (e.g., "read", "backup", "rewrite").
	Op string
	// Path is the file the operation targeted (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *HistoryError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("history %s %s: %s", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("history %s: %s", e.Op, e.Err)
}

func (e *HistoryError) Unwrap() error { return e.Err }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error implements Unwrap() allowing errors.Is and errors.As
// to work with the wrapped error.
func Wrap(err error, op string) error {
	return &wrappedError{op: op, err: err}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

// Join wraps cause with one of the sentinel errors so that both errors.Is
// checks succeed.
func Join(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsIO reports whether err is or wraps ErrIO.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// AsHistoryError reports whether err can be typed as a *HistoryError.
func AsHistoryError(err error) (*HistoryError, bool) {
	var he *HistoryError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
