package core

import (
	"context"

	"plugsetup/pkg/schema"
)

// The dispatcher consumes external capabilities through these narrow ports.
// Implementations live outside the core (internal/platform,
// internal/providers, internal/repository); mocks live in mock.go.
//
// A nil error means success. HTTP-level rejections surface as
// *CapabilityError, transport failures as *NetworkError. No port retries
// internally, and none imposes a timeout beyond what the caller's context
// carries.

// ModuleInstaller installs and uninstalls dependent modules on the platform.
type ModuleInstaller interface {
	Install(ctx context.Context, pluginID string) error
	Uninstall(ctx context.Context, pluginID string) error
}

// HealthChecker probes a named service's health endpoint.
type HealthChecker interface {
	Check(ctx context.Context, service string) error
}

// CredentialChecker validates an API key against its provider.
type CredentialChecker interface {
	Check(ctx context.Context, provider, key string) error
	// Providers lists the provider names Check accepts.
	Providers() []string
}

// ConfigStore is the host-provided configuration persistence. Callers do
// read-modify-write with no optimistic-concurrency check; the last writer
// wins.
type ConfigStore interface {
	Current() (map[string]schema.Value, error)
	Save(config map[string]schema.Value) error
}
