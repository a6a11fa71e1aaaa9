package errors

import (
	"fmt"
)

// ErrorType groups errors by who has to act on them: the user for
// validation, not-found and invalid input, the system for the rest.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeDatabase     ErrorType = "database"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeClosed       ErrorType = "closed"
)

func (et ErrorType) String() string {
	if et == "" {
		return "unknown"
	}
	return string(et)
}

// AppError is the structured error carried across the store, engine and CLI.
// Message is safe to show for user mistakes; system faults get a generic
// message from GetUserMessage.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches an AppError target of the same type. A target without a code
// matches every code of its type, so &AppError{Type: ErrorTypeClosed} works
// as a sentinel for errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Type != e.Type {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithContext records key for logging and tests, returning e for chaining
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}
