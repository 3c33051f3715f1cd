// Package errors provides structured error handling for materialized results.
//
// Errors carry a category (ErrorType), a message, an optional cause, key-value
// details and the call stack at the point of creation. Result operations report
// misuse (reading a failed or drained result, out-of-bounds cells) as
// ErrorTypeInvalidOperation and broken internal state as ErrorTypeInternal.
//
//	v, err := res.GetValue(0, 10)
//	if errors.IsType(err, errors.ErrorTypeInvalidOperation) {
//	    // caller bug: index or outcome precondition violated
//	}
//
// Nothing in this package is retried: all result state is in memory and
// deterministic.
package errors

import (
	"errors"
	"runtime"

	stringpool "github.com/ajitpratap0/matresult/pkg/strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInvalidOperation represents operations not allowed in the current result state
	ErrorTypeInvalidOperation ErrorType = "invalid_operation"
	// ErrorTypeInternal represents internal inconsistencies
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeConversion represents values that cannot be converted to the requested type
	ErrorTypeConversion ErrorType = "conversion"
	// ErrorTypeOutOfRange represents numeric overflow on narrowing
	ErrorTypeOutOfRange ErrorType = "out_of_range"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeFormat represents encoding and decoding errors of exchange formats
	ErrorTypeFormat ErrorType = "format"
	// ErrorTypeQuery represents query execution errors
	ErrorTypeQuery ErrorType = "query"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context.
// Returns nil if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// TypeOf returns the type of the outermost *Error in err's chain, or the
// empty type when err carries none.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Type
}

// captureStack records up to maxFrames callers, skipping skip frames above
// captureStack itself.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	var pcs [maxFrames]uintptr
	n := runtime.Callers(skip+1, pcs[:])
	if n == 0 {
		return nil
	}

	frames := make([]StackFrame, 0, n)
	iter := runtime.CallersFrames(pcs[:n])
	for {
		f, more := iter.Next()
		frames = append(frames, StackFrame{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		})
		if !more {
			break
		}
	}
	return frames
}
