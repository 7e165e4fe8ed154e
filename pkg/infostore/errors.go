package infostore

import (
	"errors"
	"fmt"
	"net/http"
)

// Store error codes.
const (
	ErrCodeEntityExists    = "store.entity_exists"    // HTTP 409 - Create called on an already-present name
	ErrCodeEntityMissing   = "store.entity_missing"   // HTTP 404 - Update/get/delete on an absent entity
	ErrCodeMergeType       = "store.merge_type_error" // HTTP 500 - Structurally unsupported value types
	ErrCodePairingNotReady = "pairing.not_ready"      // HTTP 404 - Pairing code unknown or credential not issued yet
)

// httpStatusMap maps error codes to their HTTP status codes.
var httpStatusMap = map[string]int{
	ErrCodeEntityExists:    http.StatusConflict,
	ErrCodeEntityMissing:   http.StatusNotFound,
	ErrCodeMergeType:       http.StatusInternalServerError,
	ErrCodePairingNotReady: http.StatusNotFound,
}

// StoreError represents a store error with a structured code. The
// first three codes are client/defect conditions with no state change;
// pairing.not_ready is a normal retry-later signal, not a defect.
type StoreError struct {
	Code    string // One of the ErrCode* constants
	Message string // Human-readable error description
	Status  int    // HTTP status code
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus returns the HTTP status code for this error.
func (e *StoreError) HTTPStatus() int {
	return e.Status
}

// newError creates a StoreError with the given code and message.
func newError(code, message string) *StoreError {
	return &StoreError{
		Code:    code,
		Message: message,
		Status:  httpStatusMap[code],
	}
}

// ErrEntityExists creates an error for a create call on an
// already-present entity name.
func ErrEntityExists(name string) *StoreError {
	return newError(ErrCodeEntityExists, fmt.Sprintf("entity %q already exists", name))
}

// ErrEntityMissing creates an error for an operation on an absent
// entity name.
func ErrEntityMissing(name string) *StoreError {
	return newError(ErrCodeEntityMissing, fmt.Sprintf("entity %q does not exist", name))
}

// ErrMergeType creates an error for a merge over structurally
// unsupported value types. This is a defect requiring investigation,
// not a routine client error.
func ErrMergeType(detail string) *StoreError {
	return newError(ErrCodeMergeType, detail)
}

// PairingRetryMessage is returned verbatim to clients polling for a
// credential that has not been issued yet.
const PairingRetryMessage = "Invalid pairing code or not satisfied yet. Try in 30 seconds."

// ErrPairingNotReady creates a retry-later error for a pairing code
// with no matching, satisfied entry.
func ErrPairingNotReady() *StoreError {
	return newError(ErrCodePairingNotReady, PairingRetryMessage)
}

// ErrorCode extracts the store error code from an error.
// Returns empty string if the error is not a StoreError.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsStoreError returns true if the error is or wraps a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
