package error

import (
	"errors"
	"fmt"
)

// ErrStorage is the sentinel matched by every local storage failure.
var ErrStorage = errors.New("local storage failure")

// StorageErrorCode defines error codes for local storage failures.
// Format: WST-03YYYY.
type StorageErrorCode string

const (
	ErrCodeStorageRead  StorageErrorCode = "WST-030001"
	ErrCodeStorageWrite StorageErrorCode = "WST-030002"
	ErrCodeStorageClear StorageErrorCode = "WST-030003"
)

// StorageError reports a failed operation against the key-value store.
type StorageError struct {
	Code StorageErrorCode
	Op   string
	Key  string
	Err  error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap exposes both ErrStorage and the backend error.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// NewStorageError creates a new StorageError.
func NewStorageError(code StorageErrorCode, op, key string, err error) *StorageError {
	return &StorageError{
		Code: code,
		Op:   op,
		Key:  key,
		Err:  err,
	}
}
