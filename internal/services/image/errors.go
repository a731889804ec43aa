// File: internal/services/image/errors.go
package image

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeRateLimit  ErrorType = "RATE_LIMIT"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type ImageError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *ImageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("image %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("image %s error: %s", e.Type, e.Message)
}
