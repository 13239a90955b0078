package error

import "errors"

// Document store errors.
var (
	// ErrDocumentNotFound is returned when a document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidCollection is returned when a collection name is empty or malformed.
	ErrInvalidCollection = errors.New("invalid collection name")

	// ErrInvalidFilter is returned when a query filter names an unusable field.
	ErrInvalidFilter = errors.New("invalid filter")
)

// DocumentErrorCode defines error codes for document store errors.
// Format: DOC-XXYYYY.
type DocumentErrorCode string

const (
	ErrCodeDocumentNotFound  DocumentErrorCode = "DOC-010001"
	ErrCodeInvalidCollection DocumentErrorCode = "DOC-010002"
	ErrCodeInvalidFilter     DocumentErrorCode = "DOC-010003"
	ErrCodeInvalidFields     DocumentErrorCode = "DOC-010004"
	ErrCodeRemoteUnavailable DocumentErrorCode = "DOC-020001"
)

// DocumentError represents a document store error with code and message.
type DocumentError struct {
	Code    DocumentErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewDocumentError creates a new DocumentError with the given code and message.
func NewDocumentError(code DocumentErrorCode, message string, err error) *DocumentError {
	return &DocumentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
