// File: internal/session/errors.go
package session

import "fmt"

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
)

// SessionError is only returned from constructors; runtime collaborator
// failures are recovered inside the manager and never escape as errors.
type SessionError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("session %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func NewValidationError(operation, msg string) *SessionError {
	return &SessionError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}
