// Package dto defines data transfer objects for API requests and responses.
package dto

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// SubmissionErrorResponse represents a failed submission. Succeeded lists the
// group keys already written to the server.
type SubmissionErrorResponse struct {
	Error     string   `json:"error"`
	Code      string   `json:"code"`
	Succeeded []string `json:"succeeded"`
	FailedKey string   `json:"failed_key,omitempty"`
}
