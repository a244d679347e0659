package core

import (
	"context"
	"fmt"

	"plugsetup/pkg/schema"
)

// RollbackEngine undoes a session's recorded mutations. Rollback is advisory
// cleanup, not a strict atomic transaction: every compensation is attempted,
// failures are collected rather than halting, and the ledger is cleared
// regardless of the outcome.
type RollbackEngine struct {
	configs   ConfigStore
	installer ModuleInstaller
	logger    Logger
}

// NewRollbackEngine creates a rollback engine over the given capabilities.
func NewRollbackEngine(configs ConfigStore, installer ModuleInstaller, logger Logger) *RollbackEngine {
	return &RollbackEngine{
		configs:   configs,
		installer: installer,
		logger:    logger,
	}
}

// Rollback compensates every mutation in the session's ledger in reverse
// insertion order, then clears the ledger and collected values. It returns
// the list of per-mutation failure messages; an empty list means every
// compensation succeeded.
//
// LIFO order is required: a later mutation may depend on state established
// by an earlier one, so compensations run sequentially from the most recent
// mutation backwards. The caller is responsible for removing the session
// from the store afterwards.
func (e *RollbackEngine) Rollback(ctx context.Context, session *Session) []string {
	var failures []string

	for i := len(session.Mutations) - 1; i >= 0; i-- {
		mutation := session.Mutations[i]

		e.logger.Info("compensating mutation",
			"session_id", session.ID,
			"mutation_id", mutation.MutationID(),
			"type", mutation.MutationType(),
		)

		if err := e.compensate(ctx, mutation); err != nil {
			e.logger.Error("compensation failed",
				"session_id", session.ID,
				"mutation_id", mutation.MutationID(),
				"error", err.Error(),
			)
			failures = append(failures, describeFailure(mutation, err))
		}
	}

	// Cleanup is unconditional: the ledger and collected values are dropped
	// whether or not every compensation succeeded.
	session.ClearLedger()

	return failures
}

// compensate attempts the inverse of a single mutation.
func (e *RollbackEngine) compensate(ctx context.Context, mutation schema.Mutation) error {
	switch m := mutation.(type) {
	case *schema.SaveConfigMutation:
		// Delete the key regardless of its current value; there is no
		// conflict check against concurrent external edits.
		config, err := e.configs.Current()
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		delete(config, m.Key)
		if err := e.configs.Save(config); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		return nil

	case *schema.InstallDependencyMutation:
		return e.installer.Uninstall(ctx, m.PluginID)

	default:
		return fmt.Errorf("unknown mutation type %q", mutation.MutationType())
	}
}

// describeFailure renders one compensation failure for the aggregate report.
func describeFailure(mutation schema.Mutation, err error) string {
	switch m := mutation.(type) {
	case *schema.SaveConfigMutation:
		return fmt.Sprintf("failed to remove config key %q: %v", m.Key, err)
	case *schema.InstallDependencyMutation:
		return fmt.Sprintf("failed to uninstall %q: %v", m.PluginID, err)
	default:
		return fmt.Sprintf("failed to compensate %s: %v", mutation.MutationType(), err)
	}
}
