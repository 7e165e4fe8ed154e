// Package clierror provides structured errors for CLI output with codes,
// exit codes, and remediation hints.
package clierror

import (
	"encoding/json"
	"fmt"
	"os"
)

// Exit codes surfaced to shell scripts driving the CLI
const (
	ExitSuccess      = 0 // Operation completed successfully
	ExitGeneral      = 1 // Unknown/unhandled error
	ExitInvalidInput = 2 // Malformed payload or arguments
	ExitPending      = 3 // Pairing credential not issued yet
	ExitNotFound     = 4 // Resource doesn't exist
	ExitConflict     = 5 // Resource already exists
)

// Error codes (strings) for programmatic error handling
const (
	CodeEntityNotFound   = "ENTITY_NOT_FOUND"
	CodeAlreadyExists    = "ALREADY_EXISTS"
	CodePairingPending   = "PAIRING_PENDING"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeConnectionFailed = "CONNECTION_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// CLIError represents a structured error for CLI output.
type CLIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Retryable bool   `json:"retryable"`
	ExitCode  int    `json:"-"` // Not serialized, used for os.Exit
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// EntityNotFound creates an error when an entity doesn't exist.
func EntityNotFound(name string) *CLIError {
	return &CLIError{
		Code:      CodeEntityNotFound,
		Message:   fmt.Sprintf("entity '%s' not found", name),
		Hint:      "Check entity names with 'infoctl document get <key>'",
		Retryable: false,
		ExitCode:  ExitNotFound,
	}
}

// AlreadyExists creates an error when an entity already exists.
func AlreadyExists(name string) *CLIError {
	return &CLIError{
		Code:      CodeAlreadyExists,
		Message:   fmt.Sprintf("entity '%s' already exists", name),
		Hint:      "Use 'infoctl entity update' or delete the existing entity first",
		Retryable: false,
		ExitCode:  ExitConflict,
	}
}

// PairingPending creates an error while a pairing credential awaits issuance.
func PairingPending() *CLIError {
	return &CLIError{
		Code:      CodePairingPending,
		Message:   "pairing credential not issued yet",
		Hint:      "Retry in 30 seconds, or use 'infoctl pairing resolve --wait'",
		Retryable: true,
		ExitCode:  ExitPending,
	}
}

// InvalidInput creates an error for a rejected payload.
func InvalidInput(detail string) *CLIError {
	return &CLIError{
		Code:      CodeInvalidInput,
		Message:   fmt.Sprintf("invalid input: %s", detail),
		Hint:      "Payloads must be JSON objects",
		Retryable: false,
		ExitCode:  ExitInvalidInput,
	}
}

// ConnectionFailed creates an error for connection failures.
func ConnectionFailed(target string) *CLIError {
	return &CLIError{
		Code:      CodeConnectionFailed,
		Message:   fmt.Sprintf("failed to connect to '%s'", target),
		Hint:      "Check network connectivity and the --server address",
		Retryable: true,
		ExitCode:  ExitGeneral,
	}
}

// InternalError creates an error for unexpected internal errors.
func InternalError(err error) *CLIError {
	msg := "an unexpected internal error occurred"
	if err != nil {
		msg = fmt.Sprintf("internal error: %s", err.Error())
	}
	return &CLIError{
		Code:      CodeInternalError,
		Message:   msg,
		Hint:      "",
		Retryable: false,
		ExitCode:  ExitGeneral,
	}
}

// FormatError returns the error formatted for the given output format.
// Supported formats: "json" for JSON output, anything else for human-readable format.
func FormatError(err *CLIError, outputFormat string) string {
	if outputFormat == "json" {
		data, jsonErr := json.MarshalIndent(err, "", "  ")
		if jsonErr != nil {
			// Fallback to simple JSON if marshaling fails
			return fmt.Sprintf(`{"code":"%s","message":"%s"}`, err.Code, err.Message)
		}
		return string(data)
	}

	output := fmt.Sprintf("Error [%s]: %s", err.Code, err.Message)
	if err.Hint != "" {
		output += fmt.Sprintf("\nHint: %s", err.Hint)
	}
	return output
}

// PrintError prints the error to stderr in the appropriate format.
func PrintError(err *CLIError, outputFormat string) {
	fmt.Fprintln(os.Stderr, FormatError(err, outputFormat))
}
