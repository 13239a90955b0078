package error

import "errors"

// Validation errors for a candidate waste entry.
var (
	// ErrEmptyInput is returned when the weight input is blank.
	ErrEmptyInput = errors.New("weight is required")

	// ErrNotANumber is returned when the weight input does not parse as a finite number.
	ErrNotANumber = errors.New("weight is not a number")

	// ErrNonPositive is returned when the weight is zero or negative.
	ErrNonPositive = errors.New("weight must be greater than zero")

	// ErrTooLarge is returned when the weight exceeds the sanity limit.
	ErrTooLarge = errors.New("weight exceeds maximum")

	// ErrMissingCategory is returned when no waste category was selected.
	ErrMissingCategory = errors.New("waste category is required")
)

// ValidationErrorCode defines error codes for entry validation.
// Format: WST-01YYYY.
type ValidationErrorCode string

const (
	ErrCodeEmptyInput      ValidationErrorCode = "WST-010001"
	ErrCodeNotANumber      ValidationErrorCode = "WST-010002"
	ErrCodeNonPositive     ValidationErrorCode = "WST-010003"
	ErrCodeTooLarge        ValidationErrorCode = "WST-010004"
	ErrCodeMissingCategory ValidationErrorCode = "WST-010005"
	ErrCodeInvalidRequest  ValidationErrorCode = "WST-010006"
)

// ValidationError is a recoverable, user-facing validation failure.
// Err is always one of the sentinel errors above.
type ValidationError struct {
	Code    ValidationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel for the failed rule.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(code ValidationErrorCode, message string, err error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
