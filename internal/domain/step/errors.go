package step

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientPrivilege is returned before any step runs when the
// calling identity lacks the required privilege level.
var ErrInsufficientPrivilege = errors.New("insufficient privilege: provisioning must run as root")

// Error codes for step failures.
const (
	ErrCodeApplyFailed = "APPLY_FAILED"
	ErrCodeCheckFailed = "CHECK_FAILED"
	ErrCodeFetchFailed = "FETCH_FAILED"
)

// StepError represents a user-facing step failure with an actionable
// suggestion.
type StepError struct {
	Code       string // Error code for categorization
	Message    string // User-friendly error message
	StepID     string // Step ID if applicable
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *StepError) Error() string {
	if e.StepID != "" {
		return fmt.Sprintf("step %q: %s", e.StepID, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *StepError) Unwrap() error {
	return e.Underlying
}

// Format returns a fully formatted error with all details.
func (e *StepError) Format() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.StepID != "" {
		b.WriteString(fmt.Sprintf("\n  Step: %s", e.StepID))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  Suggestion: %s", e.Suggestion))
	}
	if e.Underlying != nil {
		b.WriteString(fmt.Sprintf("\n  Cause: %s", e.Underlying.Error()))
	}

	return b.String()
}

// NewApplyFailedError creates an error for a step apply failure.
func NewApplyFailedError(stepID string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeApplyFailed,
		Message:    "step failed to apply",
		StepID:     stepID,
		Suggestion: "Check the error details; the run can be safely restarted once the cause is fixed.",
		Underlying: err,
	}
}

// NewCheckFailedError creates an error for a step check failure.
func NewCheckFailedError(stepID string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeCheckFailed,
		Message:    "step status check failed",
		StepID:     stepID,
		Suggestion: "The step could not determine its current status. This may be a transient error.",
		Underlying: err,
	}
}
