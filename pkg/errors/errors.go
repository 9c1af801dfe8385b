package errors

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// ErrMissingRequiredInput indicates that a required environment variable was not set
	ErrMissingRequiredInput = errors.New("missing required input")

	// ErrInvalidValue indicates that an environment value is outside the recognized set
	ErrInvalidValue = errors.New("invalid value")

	// ErrNotFound indicates that a requested run record was not found
	ErrNotFound = errors.New("not found")
)

// ConfigError represents a configuration error with additional context
type ConfigError struct {
	Op      string                 // Derivation step that failed
	Key     string                 // Environment key involved, if any
	Err     error                  // Underlying error
	Context map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	msg := e.Op
	if e.Key != "" {
		msg += " " + e.Key
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("%s: %v (context: %v)", msg, e.Err, e.Context)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap allows errors.Is and errors.As to work
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(op, key string, err error) *ConfigError {
	return &ConfigError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// WithContext adds context to a ConfigError
func (e *ConfigError) WithContext(key string, value interface{}) *ConfigError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MissingInput builds a missing-required-input error for the given keys.
func MissingInput(op string, keys ...string) *ConfigError {
	e := NewConfigError(op, "", ErrMissingRequiredInput)
	if len(keys) > 0 {
		e.WithContext("keys", keys)
	}
	return e
}

// InvalidValue builds an invalid-value error for key with the offending value.
func InvalidValue(op, key, value string) *ConfigError {
	return NewConfigError(op, key, ErrInvalidValue).WithContext("value", value)
}

// IsMissingInput checks if an error is a missing required input error
func IsMissingInput(err error) bool {
	return errors.Is(err, ErrMissingRequiredInput)
}

// IsInvalidValue checks if an error is an invalid value error
func IsInvalidValue(err error) bool {
	return errors.Is(err, ErrInvalidValue)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
