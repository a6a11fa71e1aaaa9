package cli

import (
	"fmt"

	"todo-list/internal/errors"
	"todo-list/internal/logging"
	"todo-list/internal/validation"
)

// ErrorHandler turns command errors into the messages shown to the user
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// HandleSimple provides user-friendly error messages without operation
// context. System faults are logged with their cause when debugging is on.
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}

	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("%s", validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		if errors.ShouldLogError(err) {
			logging.Debugf("error [%s]: %v\n", errors.GetErrorCode(err), err)
		}
		return fmt.Errorf("%s", errors.GetUserMessage(err))
	}

	return err
}
