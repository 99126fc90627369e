package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Quip error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrNoMatch           ErrorCode = "NO_MATCH"            // 404
	ErrNameAlreadyExists ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrInvalidPattern    ErrorCode = "INVALID_PATTERN"     // 422
	ErrInternal          ErrorCode = "INTERNAL"            // 500
)

// QuipError represents a structured error with code, status, and details.
type QuipError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *QuipError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *QuipError {
	return &QuipError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a folder or phrase key that does not exist.
func NewNotFound(identifier string) *QuipError {
	return &QuipError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("node not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNoMatch creates a 404 error when no node triggers for the given input.
func NewNoMatch(msg string) *QuipError {
	return &QuipError{
		Code:    ErrNoMatch,
		Status:  404,
		Message: msg,
	}
}

// NewNameAlreadyExists creates a 409 error for key collisions inside one folder.
func NewNameAlreadyExists(folder, name string) *QuipError {
	return &QuipError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("node with key %q already exists in folder %q", name, folder),
		Details: map[string]any{"folder": folder, "name": name},
	}
}

// NewInvalidPattern creates a 422 error for a regular expression that does not compile.
func NewInvalidPattern(pattern string, err error) *QuipError {
	msg := fmt.Sprintf("invalid pattern %q", pattern)
	if err != nil {
		msg = fmt.Sprintf("invalid pattern %q: %v", pattern, err)
	}
	return &QuipError{
		Code:    ErrInvalidPattern,
		Status:  422,
		Message: msg,
		Details: map[string]any{"pattern": pattern},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *QuipError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &QuipError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// WithDetail returns e with key set in its details map.
func (e *QuipError) WithDetail(key string, value any) *QuipError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// As unwraps err into a *QuipError.
func As(err error) (*QuipError, bool) {
	var qErr *QuipError
	if stderrors.As(err, &qErr) {
		return qErr, true
	}
	return nil, false
}

// Is checks if an error (or anything it wraps) is a QuipError with the given code.
func Is(err error, code ErrorCode) bool {
	if qErr, ok := As(err); ok {
		return qErr.Code == code
	}
	return false
}
