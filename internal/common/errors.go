package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Extraction error taxonomy. Per-document failures wrap one of these so the
// batch loop can record a failed status without aborting sibling documents.
var (
	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrEmptyContent        = errors.New("insufficient text content")
	ErrCorruptFile         = errors.New("corrupt or unreadable file")
	ErrProviderUnavailable = errors.New("extraction provider unavailable")
	ErrProviderError       = errors.New("extraction provider error")
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
