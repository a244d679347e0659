package core

import (
	"context"
	"fmt"
	"sync"

	"plugsetup/pkg/schema"
)

// CallJournal records capability invocations across mocks so tests can
// assert cross-capability ordering (rollback must compensate strictly in
// reverse insertion order).
type CallJournal struct {
	mu      sync.Mutex
	Entries []string
}

// Record appends a formatted entry to the journal.
func (j *CallJournal) Record(format string, args ...any) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Entries = append(j.Entries, fmt.Sprintf(format, args...))
}

// MockInstaller implements ModuleInstaller with canned responses and call
// counting.
type MockInstaller struct {
	InstallErrs   map[string]error // keyed by plugin ID
	UninstallErrs map[string]error

	InstallCalls   []string
	UninstallCalls []string

	Journal *CallJournal
}

// NewMockInstaller creates an installer mock that succeeds for every module.
func NewMockInstaller() *MockInstaller {
	return &MockInstaller{
		InstallErrs:   make(map[string]error),
		UninstallErrs: make(map[string]error),
	}
}

func (m *MockInstaller) Install(ctx context.Context, pluginID string) error {
	m.InstallCalls = append(m.InstallCalls, pluginID)
	m.Journal.Record("install %s", pluginID)
	return m.InstallErrs[pluginID]
}

func (m *MockInstaller) Uninstall(ctx context.Context, pluginID string) error {
	m.UninstallCalls = append(m.UninstallCalls, pluginID)
	m.Journal.Record("uninstall %s", pluginID)
	return m.UninstallErrs[pluginID]
}

// MockHealthChecker implements HealthChecker with per-service canned errors.
type MockHealthChecker struct {
	Errs  map[string]error
	Calls []string
}

// NewMockHealthChecker creates a health checker mock that reports every
// service healthy.
func NewMockHealthChecker() *MockHealthChecker {
	return &MockHealthChecker{Errs: make(map[string]error)}
}

func (m *MockHealthChecker) Check(ctx context.Context, service string) error {
	m.Calls = append(m.Calls, service)
	return m.Errs[service]
}

// MockCredentialChecker implements CredentialChecker against a fixed
// provider list with per-provider canned errors.
type MockCredentialChecker struct {
	Supported []string
	Errs      map[string]error
	Calls     []string
}

// NewMockCredentialChecker creates a credential checker mock that accepts
// any key for the given providers.
func NewMockCredentialChecker(providers ...string) *MockCredentialChecker {
	return &MockCredentialChecker{
		Supported: providers,
		Errs:      make(map[string]error),
	}
}

func (m *MockCredentialChecker) Check(ctx context.Context, provider, key string) error {
	m.Calls = append(m.Calls, provider)
	for _, p := range m.Supported {
		if p == provider {
			return m.Errs[provider]
		}
	}
	return &ValidationError{
		Message: fmt.Sprintf("Unknown provider %q; supported providers: %v", provider, m.Supported),
	}
}

func (m *MockCredentialChecker) Providers() []string {
	return m.Supported
}

// MockConfigStore implements ConfigStore in memory, keeping a history of
// every saved snapshot so tests can observe rollback progress.
type MockConfigStore struct {
	Config map[string]schema.Value

	CurrentErr error
	SaveErr    error

	CurrentCalls int
	SaveCalls    int
	SaveHistory  []map[string]schema.Value

	Journal *CallJournal
}

// NewMockConfigStore creates an empty in-memory config store.
func NewMockConfigStore() *MockConfigStore {
	return &MockConfigStore{Config: make(map[string]schema.Value)}
}

func (m *MockConfigStore) Current() (map[string]schema.Value, error) {
	m.CurrentCalls++
	if m.CurrentErr != nil {
		return nil, m.CurrentErr
	}
	copied := make(map[string]schema.Value, len(m.Config))
	for k, v := range m.Config {
		copied[k] = v
	}
	return copied, nil
}

func (m *MockConfigStore) Save(config map[string]schema.Value) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}

	copied := make(map[string]schema.Value, len(config))
	for k, v := range config {
		copied[k] = v
	}
	m.Config = copied
	m.SaveHistory = append(m.SaveHistory, copied)
	m.Journal.Record("save config (%d keys)", len(copied))
	return nil
}

// MockNotifier implements Notifier, capturing emitted events.
type MockNotifier struct {
	Events []Event
}

func (m *MockNotifier) Emit(name string, payload map[string]any) {
	m.Events = append(m.Events, Event{Name: name, Payload: payload})
}
