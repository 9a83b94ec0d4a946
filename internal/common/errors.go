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

// Pipeline error taxonomy.
//
// The first three abort a pipeline invocation; everything else degrades to a
// basic-derived candidate and is only surfaced for diagnostics.
var (
	ErrInvalidImage    = errors.New("invalid image")
	ErrImageProcessing = errors.New("image processing failed")
	ErrOCRFailure      = errors.New("ocr failure")

	ErrConfiguration     = errors.New("configuration error")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrAIAuth            = errors.New("invalid API key")
	ErrAIForbidden       = errors.New("access forbidden")
	ErrAIResponseFormat  = errors.New("invalid response format")
	ErrAIGeneric         = errors.New("api error")
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

// IsFatal reports whether err must abort the whole receipt-add workflow.
// Only decode/preprocess/OCR failures qualify; AI-path errors never do.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidImage) ||
		errors.Is(err, ErrImageProcessing) ||
		errors.Is(err, ErrOCRFailure)
}
