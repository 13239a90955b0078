package error

import "errors"

// Submission errors.
var (
	// ErrNothingToSubmit is returned when there are no pending entries.
	ErrNothingToSubmit = errors.New("nothing to submit")

	// ErrRemoteWriteFailed is returned when a write to the remote sink fails.
	ErrRemoteWriteFailed = errors.New("remote write failed")

	// ErrClearFailed is returned when every group was written but local cleanup failed.
	ErrClearFailed = errors.New("clearing pending entries failed")
)

// SubmissionErrorCode defines error codes for submission failures.
// Format: WST-02YYYY.
type SubmissionErrorCode string

const (
	ErrCodeNothingToSubmit   SubmissionErrorCode = "WST-020001"
	ErrCodeRemoteWriteFailed SubmissionErrorCode = "WST-020002"
	ErrCodeClearFailed       SubmissionErrorCode = "WST-020003"
	ErrCodeLoadFailed        SubmissionErrorCode = "WST-020004"
)

// SubmissionError reports the outcome of a failed SubmitAll.
//
// Succeeded lists, in write order, the aggregation keys of the groups that
// reached the remote sink before the failure. They will be written again if
// the caller retries.
type SubmissionError struct {
	Code      SubmissionErrorCode
	Message   string
	Succeeded []string
	FailedKey string
	Kind      error
	Err       error
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (e *SubmissionError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewSubmissionError creates a new SubmissionError.
func NewSubmissionError(code SubmissionErrorCode, message string, kind error, err error) *SubmissionError {
	return &SubmissionError{
		Code:    code,
		Message: message,
		Kind:    kind,
		Err:     err,
	}
}
