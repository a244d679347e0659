package core

import (
	"fmt"
	"strings"
)

// NotFoundError reports that a referenced session does not exist. Terminal
// for the single operation that raised it; never retried.
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no active session %q", e.SessionID)
}

// ValidationError represents a field validation failure. The session remains
// usable after one.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConflictError reports an operation on a session in a terminal state, such
// as completing an already-completed session. No state changes.
type ConflictError struct {
	SessionID string
	Message   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session %s: %s", e.SessionID, e.Message)
}

// CapabilityError represents a non-success response from an external
// capability (install, uninstall, health check, credential check). The HTTP
// status is included when available.
type CapabilityError struct {
	Operation string
	Status    int
	Message   string
	Err       error
}

func (e *CapabilityError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s failed (status %d): %s", e.Operation, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

// NetworkError represents a transport failure reaching an external
// capability, distinct from an HTTP-level rejection.
type NetworkError struct {
	Operation string
	URL       string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("network error during %s to %s: %v", e.Operation, e.URL, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RollbackError aggregates per-mutation compensation failures. Cleanup still
// completed despite them; the caller is expected to surface the list to a
// human.
type RollbackError struct {
	SessionID string
	Failures  []string
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback of session %s completed with %d failure(s): %s",
		e.SessionID, len(e.Failures), strings.Join(e.Failures, "; "))
}
