package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ToolMissing indicates the terraform binary is absent or unusable
	ToolMissing ErrorCode = "TOOL_MISSING"
	// RootAnalysisFailed indicates one or more root analyses failed
	RootAnalysisFailed ErrorCode = "ROOT_ANALYSIS_FAILED"
	// GitCommandFailed indicates a git invocation failed
	GitCommandFailed ErrorCode = "GIT_COMMAND_FAILED"
	// SnapshotMissing indicates the dependency snapshot file does not exist
	SnapshotMissing ErrorCode = "SNAPSHOT_MISSING"
	// SnapshotMalformed indicates the snapshot file exists but cannot be decoded
	SnapshotMalformed ErrorCode = "SNAPSHOT_MALFORMED"
	// TargetUnresolved indicates operator-supplied targets matched no known root
	TargetUnresolved ErrorCode = "TARGET_UNRESOLVED"
	// InvalidTarget indicates a target token carries disallowed characters
	InvalidTarget ErrorCode = "INVALID_TARGET"
	// InvalidArgument indicates a missing or malformed CLI argument
	InvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixAction suggests a command the operator can run to recover
type FixAction struct {
	Command     string `json:"command"`
	Safe        bool   `json:"safe,omitempty"`
	Description string `json:"description,omitempty"`
}

// GraphError represents a tfgraph error with a stable code, a human-readable
// message naming the offending path or argument, and optional fix suggestions.
type GraphError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a new GraphError
func New(code ErrorCode, message string, cause error) *GraphError {
	return &GraphError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes[code],
	}
}

// Error implements the error interface
func (e *GraphError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GraphError) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured details to the error
func (e *GraphError) WithDetails(details interface{}) *GraphError {
	e.Details = details
	return e
}

// CodeOf extracts the ErrorCode from err, or InternalError if err carries none.
func CodeOf(err error) ErrorCode {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var ge *GraphError
	return errors.As(err, &ge) && ge.Code == code
}

var suggestedFixes = map[ErrorCode][]FixAction{
	ToolMissing: {
		{
			Command:     "tfgraph doctor",
			Safe:        true,
			Description: "Check that terraform and git are installed and on PATH",
		},
	},
	SnapshotMissing: {
		{
			Command:     "tfgraph generate-deps",
			Safe:        true,
			Description: "Regenerate the dependency snapshot",
		},
	},
	SnapshotMalformed: {
		{
			Command:     "tfgraph generate-deps",
			Safe:        true,
			Description: "Rewrite the dependency snapshot from a full workspace scan",
		},
	},
	GitCommandFailed: {
		{
			Command:     "git status",
			Safe:        true,
			Description: "Check that the workspace is a valid git repository",
		},
	},
}
