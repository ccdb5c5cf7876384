package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error types for the solution explorer
type ErrorType string

const (
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeReadFailure    ErrorType = "read_failure"
	ErrorTypeMalformedInput ErrorType = "malformed_input"
	ErrorTypeConfig         ErrorType = "config"
)

// Kinds of missing targets reported by NotFoundError
const (
	KindDirectory = "directory"
	KindFile      = "file"
)

// NotFoundError reports a path that does not resolve to the expected file or directory.
// Path is whatever the operation resolved it to; callers render it verbatim.
type NotFoundError struct {
	Type      ErrorType
	Kind      string
	Path      string
	Timestamp time.Time
}

// NewNotFound creates a not-found error for a directory or file path
func NewNotFound(kind, path string) *NotFoundError {
	return &NotFoundError{
		Type:      ErrorTypeNotFound,
		Kind:      kind,
		Path:      path,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

// ReadFailureError represents an I/O error while reading a located file or directory
type ReadFailureError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewReadFailure creates a new read failure error
func NewReadFailure(op, path string, err error) *ReadFailureError {
	return &ReadFailureError{
		Type:       ErrorTypeReadFailure,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface.
// The underlying message comes first since it is what callers show to users.
func (e *ReadFailureError) Error() string {
	if e.Underlying == nil {
		return fmt.Sprintf("%s failed for %s", e.Operation, e.Path)
	}
	return e.Underlying.Error()
}

// Unwrap returns the underlying error for errors.Is/As
func (e *ReadFailureError) Unwrap() error {
	return e.Underlying
}

// MalformedInputError reports request arguments that are missing or cannot be decoded
type MalformedInputError struct {
	Type      ErrorType
	Field     string
	Reason    string
	Timestamp time.Time
}

// NewMalformedInput creates a malformed input error for a request field
func NewMalformedInput(field, reason string) *MalformedInputError {
	return &MalformedInputError{
		Type:      ErrorTypeMalformedInput,
		Field:     field,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *MalformedInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed input: %s", e.Reason)
	}
	return fmt.Sprintf("malformed input for %s: %s", e.Field, e.Reason)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// IsNotFound reports whether err is or wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// AsNotFound extracts a NotFoundError from the chain
func AsNotFound(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

// IsReadFailure reports whether err is or wraps a ReadFailureError
func IsReadFailure(err error) bool {
	var rf *ReadFailureError
	return errors.As(err, &rf)
}

// IsMalformedInput reports whether err is or wraps a MalformedInputError
func IsMalformedInput(err error) bool {
	var mi *MalformedInputError
	return errors.As(err, &mi)
}
