package core

import (
	"errors"
	"strings"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{SessionID: "s1"}
	if got := err.Error(); got != `no active session "s1"` {
		t.Errorf("NotFoundError.Error() = %v", got)
	}
}

func TestValidationError(t *testing.T) {
	baseErr := errors.New("base error")

	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name: "with field",
			err: &ValidationError{
				Field:   "token",
				Message: "field is required",
				Err:     baseErr,
			},
			expected: "token: field is required",
		},
		{
			name: "without field",
			err: &ValidationError{
				Message: "invalid input",
				Err:     baseErr,
			},
			expected: "invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.expected)
			}
			if !errors.Is(tt.err, baseErr) {
				t.Error("ValidationError should unwrap to base error")
			}
		})
	}
}

func TestConflictError(t *testing.T) {
	err := &ConflictError{SessionID: "s1", Message: "setup already completed"}
	if got := err.Error(); got != "session s1: setup already completed" {
		t.Errorf("ConflictError.Error() = %v", got)
	}
}

func TestCapabilityError(t *testing.T) {
	tests := []struct {
		name     string
		err      *CapabilityError
		expected string
	}{
		{
			name:     "with status",
			err:      &CapabilityError{Operation: "health check for discord", Status: 503, Message: "unavailable"},
			expected: "health check for discord failed (status 503): unavailable",
		},
		{
			name:     "without status",
			err:      &CapabilityError{Operation: "install plugin-x", Message: "rejected"},
			expected: "install plugin-x failed: rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("CapabilityError.Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	baseErr := errors.New("connection refused")

	err := &NetworkError{Operation: "credential check", URL: "https://api.example.com", Err: baseErr}
	if !strings.Contains(err.Error(), "network error") {
		t.Errorf("NetworkError should identify itself as a network error, got %v", err)
	}
	if !strings.Contains(err.Error(), "https://api.example.com") {
		t.Errorf("NetworkError should include the URL, got %v", err)
	}
	if !errors.Is(err, baseErr) {
		t.Error("NetworkError should unwrap to base error")
	}

	bare := &NetworkError{Operation: "health check", Err: baseErr}
	if strings.Contains(bare.Error(), " to ") {
		t.Errorf("NetworkError without URL should omit destination, got %v", bare)
	}
}

func TestRollbackError(t *testing.T) {
	err := &RollbackError{
		SessionID: "s3",
		Failures: []string{
			`failed to uninstall "p1": status 500`,
			`failed to remove config key "a": write config: disk full`,
		},
	}

	msg := err.Error()
	if !strings.Contains(msg, "2 failure(s)") {
		t.Errorf("RollbackError should count failures, got %v", msg)
	}
	if !strings.Contains(msg, "p1") || !strings.Contains(msg, "disk full") {
		t.Errorf("RollbackError should concatenate every failure, got %v", msg)
	}
}
