// Package taperrors provides structured error types for apitap.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: YAML/JSON parsing failures and structural issues in a
//     specification document
//   - ReferenceError: $ref resolution failures (depth exceeded, cycles,
//     unknown components)
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.As
//
//	result, err := specdoc.New().Parse(data)
//	if err != nil {
//	    var parseErr *taperrors.ParseError
//	    if errors.As(err, &parseErr) {
//	        // The spec text itself was bad; keep the previous spec active.
//	    }
//	}
package taperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to parse a specification document.
// This includes YAML/JSON deserialization errors and structural issues
// such as a missing info block or an empty paths map.
type ParseError struct {
	// Source is the file path or source identifier
	Source string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// DepthExceeded is true if resolution stopped at the depth cap
	DepthExceeded bool
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.Ref != "" {
		msg += fmt.Sprintf(" for %q", e.Ref)
	}
	switch {
	case e.IsCircular:
		msg += ": circular reference"
	case e.DepthExceeded:
		msg += ": maximum resolution depth exceeded"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return e.IsCircular && target == ErrCircularReference
}

// ConfigError represents an invalid configuration or input option.
type ConfigError struct {
	// Option is the name of the offending option
	Option string
	// Message describes why the configuration is invalid
	Message string
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
