package cmdline

import (
	"errors"
	"strings"
)

// ErrorType represents error categories produced by the binder.
type ErrorType string

const (
	// ErrorTypeMissingRequired means a required field received no value
	// from the command line, the environment, or a declared default.
	ErrorTypeMissingRequired ErrorType = "missing_required"
	// ErrorTypeInvalidValue means a textual value could not be converted
	// to the field's target type or shape.
	ErrorTypeInvalidValue ErrorType = "invalid_value"
	// ErrorTypeUnknownOption means a named token matched no declared
	// binding. Only surfaced when IgnoreUnknownArguments is off.
	ErrorTypeUnknownOption ErrorType = "unknown_option"
)

// ParseError is a single structured binding failure. The binder collects
// all errors for a parse instead of stopping at the first one.
type ParseError struct {
	Type       ErrorType
	Option     string // option or field name the error refers to
	Message    string
	Suggestion string // closest declared name for unknown options, if any
}

func (e *ParseError) Error() string {
	return e.Message
}

func newParseError(typ ErrorType, option, message string) *ParseError {
	return &ParseError{Type: typ, Option: option, Message: message}
}

// Result is the uniform envelope returned by Parse. Exactly one of Value
// and Errors is populated: a successful parse carries the bound record,
// a failed one carries a non-empty error list in first-occurrence order.
type Result[T any] struct {
	Value  *T
	Errors []*ParseError
}

// Ok reports whether parsing succeeded.
func (r *Result[T]) Ok() bool {
	return len(r.Errors) == 0
}

// ErrorMessage returns a ready-to-print summary, one error per line.
// Empty on success.
func (r *Result[T]) ErrorMessage() string {
	if len(r.Errors) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range r.Errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Message)
	}
	return sb.String()
}

// Err returns all collected errors joined into one, or nil on success.
func (r *Result[T]) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
