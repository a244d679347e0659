package schema

import "time"

// Mutation is the interface for all reversible side effects recorded in a
// session's ledger. Each mutation carries exactly the data needed to compute
// its own inverse; no mutation references another.
type Mutation interface {
	MutationType() string
	MutationID() string
	Timestamp() time.Time
}

// Mutation type names.
const (
	MutationSaveConfig        = "saveConfig"
	MutationInstallDependency = "installDependency"
)

// SaveConfigMutation records a persisted config write. It is reversed by
// deleting Key from the current configuration.
type SaveConfigMutation struct {
	MutationID_ string    `json:"mutation_id" yaml:"mutation_id"`
	Key         string    `json:"key" yaml:"key"`
	Value       Value     `json:"value" yaml:"value"`
	Timestamp_  time.Time `json:"timestamp" yaml:"timestamp"`
}

func (m *SaveConfigMutation) MutationType() string { return MutationSaveConfig }
func (m *SaveConfigMutation) MutationID() string { return m.MutationID_ }
func (m *SaveConfigMutation) Timestamp() time.Time { return m.Timestamp_ }

// InstallDependencyMutation records a module installation. It is reversed by
// uninstalling that module.
type InstallDependencyMutation struct {
	MutationID_ string    `json:"mutation_id" yaml:"mutation_id"`
	PluginID    string    `json:"plugin_id" yaml:"plugin_id"`
	Timestamp_  time.Time `json:"timestamp" yaml:"timestamp"`
}

func (m *InstallDependencyMutation) MutationType() string { return MutationInstallDependency }
func (m *InstallDependencyMutation) MutationID() string { return m.MutationID_ }
func (m *InstallDependencyMutation) Timestamp() time.Time { return m.Timestamp_ }
